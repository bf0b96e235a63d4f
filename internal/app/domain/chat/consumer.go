package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/domain/itinerary"
	"github.com/tripmate/tripmate/internal/app/domain/transcript"
	"github.com/tripmate/tripmate/internal/app/models"
)

const apologyMessage = "Sorry, I encountered an error. Please try again."

// StreamOpener opens one assistant response stream. Satisfied by
// *Client; tests substitute their own.
type StreamOpener interface {
	OpenStream(ctx context.Context, token string, req models.ChatStreamRequest) (io.ReadCloser, error)
}

// Consumer drives one chat session: it submits the user's message with
// the transcript as history, grows the in-flight assistant turn
// fragment by fragment, and on completion runs extraction and updates
// the current itinerary. One stream at a time; a second submission
// while one is pending is rejected, never interleaved.
type Consumer struct {
	opener      StreamOpener
	transcript  *transcript.Store
	extractor   *itinerary.Extractor
	itineraries *itinerary.Store
	logger      *zap.Logger

	streaming atomic.Bool

	mu      sync.RWMutex
	publish func([]models.Turn)
}

func NewConsumer(
	opener StreamOpener,
	ts *transcript.Store,
	extractor *itinerary.Extractor,
	itineraries *itinerary.Store,
	logger *zap.Logger,
) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		opener:      opener,
		transcript:  ts,
		extractor:   extractor,
		itineraries: itineraries,
		logger:      logger,
	}
}

// OnUpdate registers the subscriber notified with a fresh transcript
// snapshot after every mutation. The callback runs on the consuming
// goroutine and must return quickly; rendering must not hold up
// fragment consumption.
func (c *Consumer) OnUpdate(fn func([]models.Turn)) {
	c.mu.Lock()
	c.publish = fn
	c.mu.Unlock()
}

// Streaming reports whether an assistant response is in flight. The
// submission control stays disabled while this is true.
func (c *Consumer) Streaming() bool {
	return c.streaming.Load()
}

// Stream submits a user message and consumes the assistant's streamed
// reply. Fragments are applied in arrival order; a transport failure
// keeps whatever was already shown and appends a separate apology turn.
// Context cancellation abandons remaining reads without error. Failed
// streams are terminal for the turn: no automatic retry.
func (c *Consumer) Stream(ctx context.Context, token, message string) error {
	if strings.TrimSpace(message) == "" {
		return models.ErrEmptyMessage
	}
	if !c.streaming.CompareAndSwap(false, true) {
		return models.ErrStreamInFlight
	}
	defer c.streaming.Store(false)

	// History is the transcript before this submission.
	history := c.transcript.Turns()

	c.transcript.Append(models.Turn{Role: models.RoleUser, Content: message})
	c.publishSnapshot()

	// The assistant turn becomes visible immediately so the view can
	// show a pending state before the first fragment lands.
	c.transcript.Append(models.Turn{Role: models.RoleAssistant, Content: ""})
	c.publishSnapshot()

	body, err := c.opener.OpenStream(ctx, token, models.ChatStreamRequest{
		Message: message,
		History: history,
	})
	if err != nil {
		c.failTurn(err)
		return err
	}
	defer body.Close()

	var content strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			content.Write(buf[:n])
			c.transcript.ReplaceLast(models.Turn{Role: models.RoleAssistant, Content: content.String()})
			c.publishSnapshot()
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil || errors.Is(readErr, context.Canceled) {
				// Transport discarded mid-stream: reads simply stop,
				// the turn keeps whatever it had reached.
				c.logger.Debug("stream abandoned", zap.Error(readErr))
				return nil
			}
			c.failTurn(readErr)
			return fmt.Errorf("reading assistant stream: %w", readErr)
		}
	}

	final := content.String()
	c.logger.Debug("assistant turn closed", zap.Int("bytes", len(final)))

	// Closing the turn rewrites it with the payload stripped out, so
	// raw JSON never survives in the transcript. A turn that was pure
	// payload ends up empty and renders as no bubble.
	ext := c.extractor.Extract(final)
	c.transcript.ReplaceLast(models.Turn{Role: models.RoleAssistant, Content: ext.DisplayText})
	c.publishSnapshot()
	if ext.Found() {
		c.itineraries.Set(ext.Itinerary)
	}
	return nil
}

// failTurn leaves all applied fragments intact and appends a distinct
// assistant-authored apology turn. Partial output already shown to the
// user is never dropped.
func (c *Consumer) failTurn(err error) {
	c.logger.Warn("assistant stream failed", zap.Error(err))
	c.transcript.Append(models.Turn{Role: models.RoleAssistant, Content: apologyMessage})
	c.publishSnapshot()
}

func (c *Consumer) publishSnapshot() {
	c.mu.RLock()
	fn := c.publish
	c.mu.RUnlock()
	if fn != nil {
		fn(c.transcript.Turns())
	}
}
