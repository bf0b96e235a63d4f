// Package assistant exposes the Gemini-backed travel planner over HTTP:
// a chunked chat stream plus a structured one-shot generation endpoint.
package assistant

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/pkg/config"
)

// AIClient is the upstream model boundary. Tests substitute a scripted
// implementation.
type AIClient interface {
	StreamChat(ctx context.Context, history []models.Turn, message string) iter.Seq2[string, error]
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

var _ AIClient = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, logger: logger}, nil
}

// StreamChat opens a chat with the prior turns as history and streams
// the model's reply as plain text fragments.
func (g *GeminiClient) StreamChat(ctx context.Context, history []models.Turn, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatSystemInstruction}}},
		}, toGenaiHistory(history))
		if err != nil {
			yield("", fmt.Errorf("creating chat session: %w", err))
			return
		}

		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				yield("", fmt.Errorf("streaming response: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// GenerateJSON runs a single structured-output generation.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}

func toGenaiHistory(history []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	return contents
}

// Service fronts the AI client. Structured generations are cached by
// request hash: identical trip parameters are expensive to regenerate
// and the answer does not change within the TTL.
type Service struct {
	ai     AIClient
	cache  *cache.Cache
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(ai AIClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:     ai,
		cache:  cache.New(10*time.Minute, 15*time.Minute),
		logger: logger,
	}
}

// StreamChat forwards to the model, passing the caller's history.
func (s *Service) StreamChat(ctx context.Context, history []models.Turn, message string) iter.Seq2[string, error] {
	return s.ai.StreamChat(ctx, history, message)
}

// GenerateItinerary produces a structured plan for explicit trip
// parameters, serving repeated requests from cache.
func (s *Service) GenerateItinerary(ctx context.Context, req models.GenerateItineraryRequest) (json.RawMessage, error) {
	key := generateCacheKey(req)
	if cached, found := s.cache.Get(key); found {
		s.logger.Debug("generate cache hit", zap.String("destination", req.Destination))
		return cached.(json.RawMessage), nil
	}

	// Concurrent requests for the same trip collapse into one
	// upstream call.
	result, err, _ := s.group.Do(key, func() (any, error) {
		raw, err := s.ai.GenerateJSON(ctx, generatePrompt(req))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", models.ErrAssistantUpstream, err)
		}

		cleaned := cleanJSONResponse(raw)
		if !json.Valid([]byte(cleaned)) {
			s.logger.Warn("model returned invalid JSON for structured generation",
				zap.String("destination", req.Destination),
				zap.Int("length", len(raw)))
			return nil, fmt.Errorf("%w: model output was not valid JSON", models.ErrAssistantUpstream)
		}

		payload := json.RawMessage(cleaned)
		s.cache.Set(key, payload, cache.DefaultExpiration)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func generateCacheKey(req models.GenerateItineraryRequest) string {
	sum := md5.Sum([]byte(strings.Join([]string{
		req.Destination, req.StartDate, req.EndDate, req.Budget, req.TravelStyle,
	}, "|")))
	return "generate:" + hex.EncodeToString(sum[:])
}

// cleanJSONResponse strips markdown fences the model sometimes wraps
// around structured output even when asked for bare JSON.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
