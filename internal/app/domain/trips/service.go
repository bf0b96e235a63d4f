package trips

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
)

type Service struct {
	repo   Repo
	logger *zap.Logger
}

func NewService(repo Repo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Save validates and stores an itinerary for the user.
func (s *Service) Save(ctx context.Context, userID string, req models.SaveItineraryRequest) (*models.SavedItinerary, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrUnauthenticated)
	}
	if req.Destination == "" {
		return nil, fmt.Errorf("destination is required: %w", models.ErrValidation)
	}
	if len(req.ItineraryJSON) == 0 || !json.Valid(req.ItineraryJSON) {
		return nil, fmt.Errorf("itinerary payload must be valid JSON: %w", models.ErrValidation)
	}

	saved, err := s.repo.Save(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("itinerary saved",
		zap.String("user_id", userID),
		zap.String("destination", req.Destination))
	return saved, nil
}

func (s *Service) List(ctx context.Context, userID, destination string) ([]models.SavedItinerary, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrUnauthenticated)
	}
	return s.repo.List(ctx, uid, destination)
}

func (s *Service) Get(ctx context.Context, userID, itineraryID string) (*models.SavedItinerary, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrUnauthenticated)
	}
	iid, err := uuid.Parse(itineraryID)
	if err != nil {
		return nil, fmt.Errorf("invalid itinerary id: %w", models.ErrBadRequest)
	}
	return s.repo.Get(ctx, uid, iid)
}

func (s *Service) Delete(ctx context.Context, userID, itineraryID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", models.ErrUnauthenticated)
	}
	iid, err := uuid.Parse(itineraryID)
	if err != nil {
		return fmt.Errorf("invalid itinerary id: %w", models.ErrBadRequest)
	}
	return s.repo.Delete(ctx, uid, iid)
}
