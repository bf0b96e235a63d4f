package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate/internal/app/models"
)

func TestOpenStreamReadsChunkedBody(t *testing.T) {
	var gotAuth string
	var gotReq models.ChatStreamRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, chunk := range []string{"Bonjour! ", "Paris in May ", "is perfect."} {
			_, _ = io.WriteString(w, chunk)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	body, err := client.OpenStream(context.Background(), "tok-123", models.ChatStreamRequest{
		Message: "paris in may?",
		History: []models.Turn{{Role: models.RoleAssistant, Content: "hello"}},
	})
	require.NoError(t, err)
	defer body.Close()

	all, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour! Paris in May is perfect.", string(all))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "paris in may?", gotReq.Message)
	require.Len(t, gotReq.History, 1)
}

func TestOpenStreamWithoutTokenOmitsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, "hi")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	body, err := client.OpenStream(context.Background(), "", models.ChatStreamRequest{Message: "hi"})
	require.NoError(t, err)
	body.Close()
}

func TestOpenStreamNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.OpenStream(context.Background(), "", models.ChatStreamRequest{Message: "hi"})
	assert.ErrorIs(t, err, models.ErrAssistantUpstream)
}

func TestSaveItineraryRequiresToken(t *testing.T) {
	client := NewClient("http://unused", nil)
	err := client.SaveItinerary(context.Background(), "", models.SaveItineraryRequest{Destination: "Paris"})
	assert.ErrorIs(t, err, models.ErrSaveRequiresAuth)
}

func TestSaveItinerarySendsPayload(t *testing.T) {
	var got models.SaveItineraryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/itinerary", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "abc"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	err := client.SaveItinerary(context.Background(), "tok", models.SaveItineraryRequest{
		Destination:   "Paris",
		StartDate:     "2026-05-15",
		EndDate:       "2026-05-20",
		Budget:        "moderate",
		TravelStyle:   "relaxed",
		ItineraryJSON: json.RawMessage(`{"destination":"Paris"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Destination)
	assert.JSONEq(t, `{"destination":"Paris"}`, string(got.ItineraryJSON))
}

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "tok-xyz", TokenType: "bearer"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	token, err := client.Login(context.Background(), "a@b.c", "hunter22hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", token)
}

func TestLoginUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
