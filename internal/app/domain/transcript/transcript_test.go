package transcript

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate/internal/app/models"
)

func TestNewSeedsGreeting(t *testing.T) {
	s := New()
	turns := s.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleAssistant, turns[0].Role)
	assert.NotEmpty(t, turns[0].Content)
}

func TestAppendPreservesOrder(t *testing.T) {
	s := NewEmpty()
	s.Append(models.Turn{Role: models.RoleUser, Content: "first"})
	s.Append(models.Turn{Role: models.RoleAssistant, Content: "second"})
	s.Append(models.Turn{Role: models.RoleUser, Content: "third"})

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[0].Content)
	assert.Equal(t, "second", turns[1].Content)
	assert.Equal(t, "third", turns[2].Content)
}

func TestReplaceLastGrowsStreamingTurn(t *testing.T) {
	s := NewEmpty()
	s.Append(models.Turn{Role: models.RoleUser, Content: "plan a trip"})
	s.Append(models.Turn{Role: models.RoleAssistant, Content: ""})

	content := ""
	for _, fragment := range []string{"Sure", ", here", " you go"} {
		content += fragment
		s.ReplaceLast(models.Turn{Role: models.RoleAssistant, Content: content})
	}

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "Sure, here you go", last.Content)
	assert.Equal(t, 2, s.Len())
}

func TestTurnsReturnsCopy(t *testing.T) {
	s := NewEmpty()
	s.Append(models.Turn{Role: models.RoleUser, Content: "original"})

	snapshot := s.Turns()
	snapshot[0].Content = "mutated"

	turns := s.Turns()
	assert.Equal(t, "original", turns[0].Content)
}

func TestConcurrentReadersSeeWholeTurns(t *testing.T) {
	s := NewEmpty()
	s.Append(models.Turn{Role: models.RoleAssistant, Content: ""})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		content := ""
		for i := 0; i < 1000; i++ {
			content += "x"
			s.ReplaceLast(models.Turn{Role: models.RoleAssistant, Content: content})
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			last, ok := s.Last()
			if ok && last.Role != models.RoleAssistant {
				t.Error("observed torn turn")
				return
			}
		}
	}()

	wg.Wait()
}
