package trips

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/middleware"
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

// HandleSave serves POST /api/itinerary.
func (h *Handlers) HandleSave(c *gin.Context) {
	ctx, span := otel.Tracer("tripmate").Start(c.Request.Context(), "Trips.Save")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to save itineraries"})
		return
	}

	var req models.SaveItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := h.service.Save(ctx, userID, req)
	if err != nil {
		h.writeError(c, span, err, "failed to save itinerary")
		return
	}

	metrics.Get().ItinerarySavesTotal.Add(ctx, 1)
	span.SetAttributes(attribute.String("itinerary.id", saved.ID.String()))
	c.JSON(http.StatusCreated, saved)
}

// HandleList serves GET /api/itinerary. An optional ?destination=
// query narrows the results.
func (h *Handlers) HandleList(c *gin.Context) {
	ctx, span := otel.Tracer("tripmate").Start(c.Request.Context(), "Trips.List")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	saved, err := h.service.List(ctx, userID, c.Query("destination"))
	if err != nil {
		h.writeError(c, span, err, "failed to list itineraries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": saved})
}

// HandleGet serves GET /api/itinerary/:id.
func (h *Handlers) HandleGet(c *gin.Context) {
	ctx, span := otel.Tracer("tripmate").Start(c.Request.Context(), "Trips.Get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	saved, err := h.service.Get(ctx, userID, c.Param("id"))
	if err != nil {
		h.writeError(c, span, err, "failed to fetch itinerary")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// HandleDelete serves DELETE /api/itinerary/:id.
func (h *Handlers) HandleDelete(c *gin.Context) {
	ctx, span := otel.Tracer("tripmate").Start(c.Request.Context(), "Trips.Delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.service.Delete(ctx, userID, c.Param("id")); err != nil {
		h.writeError(c, span, err, "failed to delete itinerary")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) writeError(c *gin.Context, span trace.Span, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, fallback)
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
