// Package trips persists saved itineraries for authenticated users.
package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo interface {
	Save(ctx context.Context, userID uuid.UUID, req models.SaveItineraryRequest) (*models.SavedItinerary, error)
	List(ctx context.Context, userID uuid.UUID, destination string) ([]models.SavedItinerary, error)
	Get(ctx context.Context, userID, itineraryID uuid.UUID) (*models.SavedItinerary, error)
	Delete(ctx context.Context, userID, itineraryID uuid.UUID) error
}

var _ Repo = (*PostgresRepo)(nil)

type PostgresRepo struct {
	db      DB
	builder sq.StatementBuilderType
	logger  *zap.Logger
}

func NewPostgresRepo(db DB, logger *zap.Logger) *PostgresRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepo{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

func (r *PostgresRepo) Save(ctx context.Context, userID uuid.UUID, req models.SaveItineraryRequest) (*models.SavedItinerary, error) {
	record := &models.SavedItinerary{
		ID:            uuid.New(),
		UserID:        userID,
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		TravelStyle:   req.TravelStyle,
		ItineraryJSON: req.ItineraryJSON,
		CreatedAt:     time.Now().UTC(),
	}

	query, args, err := r.builder.
		Insert("itineraries").
		Columns("id", "user_id", "destination", "start_date", "end_date",
			"budget", "travel_style", "itinerary_json", "created_at").
		Values(record.ID, record.UserID, record.Destination, record.StartDate,
			record.EndDate, record.Budget, record.TravelStyle,
			[]byte(record.ItineraryJSON), record.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.logger.Error("inserting itinerary", zap.Error(err))
		return nil, fmt.Errorf("database error saving itinerary: %w", err)
	}
	return record, nil
}

// List returns the user's saved itineraries, newest first, optionally
// filtered by destination.
func (r *PostgresRepo) List(ctx context.Context, userID uuid.UUID, destination string) ([]models.SavedItinerary, error) {
	q := r.builder.
		Select("id", "user_id", "destination", "start_date", "end_date",
			"budget", "travel_style", "itinerary_json", "created_at").
		From("itineraries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if destination != "" {
		q = q.Where(sq.ILike{"destination": "%" + destination + "%"})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("listing itineraries", zap.Error(err))
		return nil, fmt.Errorf("database error listing itineraries: %w", err)
	}
	defer rows.Close()

	saved := make([]models.SavedItinerary, 0)
	for rows.Next() {
		var it models.SavedItinerary
		if err := rows.Scan(&it.ID, &it.UserID, &it.Destination, &it.StartDate,
			&it.EndDate, &it.Budget, &it.TravelStyle, &it.ItineraryJSON, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning itinerary row: %w", err)
		}
		saved = append(saved, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating itinerary rows: %w", err)
	}
	return saved, nil
}

func (r *PostgresRepo) Get(ctx context.Context, userID, itineraryID uuid.UUID) (*models.SavedItinerary, error) {
	query, args, err := r.builder.
		Select("id", "user_id", "destination", "start_date", "end_date",
			"budget", "travel_style", "itinerary_json", "created_at").
		From("itineraries").
		Where(sq.Eq{"id": itineraryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var it models.SavedItinerary
	err = r.db.QueryRow(ctx, query, args...).Scan(&it.ID, &it.UserID, &it.Destination,
		&it.StartDate, &it.EndDate, &it.Budget, &it.TravelStyle, &it.ItineraryJSON, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary %s: %w", itineraryID, models.ErrNotFound)
		}
		r.logger.Error("fetching itinerary", zap.Error(err))
		return nil, fmt.Errorf("database error fetching itinerary: %w", err)
	}
	return &it, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, itineraryID uuid.UUID) error {
	query, args, err := r.builder.
		Delete("itineraries").
		Where(sq.Eq{"id": itineraryID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("deleting itinerary", zap.Error(err))
		return fmt.Errorf("database error deleting itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary %s: %w", itineraryID, models.ErrNotFound)
	}
	return nil
}
