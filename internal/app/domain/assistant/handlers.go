package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/app/observability/metrics"
)

type Handlers struct {
	service *Service
	logger  *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// HandleChatStream serves POST /api/chat/stream: the assistant's reply
// is written to the response as chunked plain text, one flush per
// model fragment, with no sentinel beyond stream close.
func (h *Handlers) HandleChatStream(c *gin.Context) {
	tracer := otel.Tracer("tripmate")
	ctx, span := tracer.Start(c.Request.Context(), "Assistant.ChatStream")
	defer span.End()

	var req models.ChatStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrEmptyMessage.Error()})
		return
	}

	span.SetAttributes(
		attribute.Int("history.turns", len(req.History)),
		attribute.Int("message.length", len(req.Message)),
	)
	metrics.Get().ChatStreamsTotal.Add(ctx, 1)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.logger.Error("response writer does not support flushing")
		return
	}

	fragments := 0
	for fragment, err := range h.service.StreamChat(ctx, req.History, req.Message) {
		if err != nil {
			// Headers are gone; all we can do is stop the stream and
			// let the client treat the truncation as a failure.
			h.logger.Error("assistant stream failed",
				zap.Int("fragments_sent", fragments),
				zap.Error(err))
			metrics.Get().ChatStreamFailuresTotal.Add(ctx, 1)
			span.RecordError(err)
			span.SetStatus(codes.Error, "stream failed")
			c.Abort()
			return
		}
		if _, werr := c.Writer.WriteString(fragment); werr != nil {
			// Client went away mid-stream.
			h.logger.Debug("client disconnected mid-stream", zap.Error(werr))
			return
		}
		flusher.Flush()
		fragments++
		metrics.Get().ChatFragmentsTotal.Add(ctx, 1)
	}

	span.SetAttributes(attribute.Int("fragments", fragments))
	span.SetStatus(codes.Ok, "stream complete")
}

// HandleGenerateItinerary serves POST /api/itinerary/generate.
func (h *Handlers) HandleGenerateItinerary(c *gin.Context) {
	tracer := otel.Tracer("tripmate")
	ctx, span := tracer.Start(c.Request.Context(), "Assistant.GenerateItinerary",
		trace.WithAttributes(attribute.String("handler", "generate_itinerary")))
	defer span.End()

	var req models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	payload, err := h.service.GenerateItinerary(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate itinerary"})
		return
	}

	metrics.Get().ItineraryGenerationsTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "generated")
	c.Data(http.StatusOK, "application/json", payload)
}
