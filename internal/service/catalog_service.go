package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/repository"
	"musclemap/prescription-engine/internal/storage"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrValidationFailed  = errors.New("exercise validation failed")
	ErrMediaNotAvailable = errors.New("media storage is not configured")
)

// CatalogService manages the exercise catalog. Every write fires
// admin_exercise_edit so cached catalogs are rebuilt.
type CatalogService interface {
	List(ctx context.Context) ([]*domain.ExerciseMetadata, error)
	Get(ctx context.Context, id string) (*domain.ExerciseMetadata, error)
	Upsert(ctx context.Context, ex *domain.ExerciseMetadata) (*domain.ExerciseMetadata, error)
	Import(ctx context.Context, exercises []*domain.ExerciseMetadata) (int, error)
	RequestVideoUpload(ctx context.Context, exerciseID, contentType string) (*VideoUpload, error)
}

// VideoUpload is a presigned PUT the admin client uses to upload a demo video.
type VideoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type catalogService struct {
	log   *logger.Logger
	repo  repository.ExerciseRepository
	cache *cache.TieredCache
	media storage.MediaStorage // nil when media storage is disabled
}

func NewCatalogService(log *logger.Logger, repo repository.ExerciseRepository, c *cache.TieredCache, media storage.MediaStorage) CatalogService {
	return &catalogService{
		log:   logger.OrNop(log).With("component", "CatalogService"),
		repo:  repo,
		cache: c,
		media: media,
	}
}

func (s *catalogService) List(ctx context.Context) ([]*domain.ExerciseMetadata, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.ExerciseMetadata, error) {
	ex, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExerciseNotFound
	}
	return ex, err
}

func (s *catalogService) Upsert(ctx context.Context, ex *domain.ExerciseMetadata) (*domain.ExerciseMetadata, error) {
	if err := ValidateExercise(ex); err != nil {
		return nil, err
	}
	// an edit through the API must not drop an uploaded video
	if ex.VideoObjectKey == "" {
		if existing, err := s.repo.GetByID(ctx, ex.ID); err == nil {
			ex.VideoObjectKey = existing.VideoObjectKey
		}
	}
	if err := s.repo.Upsert(ctx, ex); err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, 1)
	return ex, nil
}

// Import validates the whole batch before writing any of it.
func (s *catalogService) Import(ctx context.Context, exercises []*domain.ExerciseMetadata) (int, error) {
	seen := make(map[string]bool, len(exercises))
	for i, ex := range exercises {
		if err := ValidateExercise(ex); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		if seen[ex.ID] {
			return 0, fmt.Errorf("entry %d: %w: duplicate id %q", i, ErrValidationFailed, ex.ID)
		}
		seen[ex.ID] = true
	}
	written := 0
	for _, ex := range exercises {
		if err := s.repo.Upsert(ctx, ex); err != nil {
			s.catalogChanged(ctx, written)
			return written, fmt.Errorf("upsert %s: %w", ex.ID, err)
		}
		written++
	}
	s.catalogChanged(ctx, written)
	return written, nil
}

// RequestVideoUpload presigns an upload and records the new key on the exercise.
func (s *catalogService) RequestVideoUpload(ctx context.Context, exerciseID, contentType string) (*VideoUpload, error) {
	if s.media == nil {
		return nil, ErrMediaNotAvailable
	}
	ex, err := s.Get(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	key, err := storage.VideoObjectKey(ex.ID, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	url, err := s.media.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	previous := ex.VideoObjectKey
	ex.VideoObjectKey = key
	if err := s.repo.Upsert(ctx, ex); err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, 1)
	if previous != "" && previous != key {
		if err := s.media.DeleteObject(ctx, previous); err != nil {
			s.log.Warn("previous demo video not deleted", "exerciseId", ex.ID, "key", previous, "error", err)
		}
	}
	return &VideoUpload{UploadURL: url, ObjectKey: key}, nil
}

func (s *catalogService) catalogChanged(ctx context.Context, n int) {
	if n == 0 || s.cache == nil {
		return
	}
	s.cache.InvalidateOnEvent(ctx, cache.EventAdminExerciseEdit, "")
	s.log.Info("catalog updated", "exercises", n)
}

// ValidateExercise checks the fields scoring depends on.
func ValidateExercise(ex *domain.ExerciseMetadata) error {
	if ex == nil {
		return fmt.Errorf("%w: empty exercise", ErrValidationFailed)
	}
	if strings.TrimSpace(ex.ID) == "" || strings.TrimSpace(ex.Name) == "" {
		return fmt.Errorf("%w: id and name are required", ErrValidationFailed)
	}
	if strings.ContainsAny(ex.ID, "/ ") {
		return fmt.Errorf("%w: id %q must not contain spaces or slashes", ErrValidationFailed, ex.ID)
	}
	if !ex.MovementPattern.Valid() {
		return fmt.Errorf("%w: %s: unknown movement pattern %q", ErrValidationFailed, ex.ID, ex.MovementPattern)
	}
	if len(ex.Muscles.Primary) == 0 {
		return fmt.Errorf("%w: %s: at least one primary muscle is required", ErrValidationFailed, ex.ID)
	}
	for _, group := range [][]domain.MuscleActivation{ex.Muscles.Primary, ex.Muscles.Secondary, ex.Muscles.Stabilizers} {
		for _, m := range group {
			if m.MuscleID == "" || m.Activation < 0 || m.Activation > 100 {
				return fmt.Errorf("%w: %s: muscle activation must name a muscle and be 0-100", ErrValidationFailed, ex.ID)
			}
		}
	}
	p := ex.Performance
	for name, v := range map[string]int{
		"cnsLoad":             p.CNSLoad,
		"metabolicDemand":     p.MetabolicDemand,
		"technicalComplexity": p.TechnicalComplexity,
		"balanceRequirement":  p.BalanceRequirement,
	} {
		if v < 0 || v > 10 {
			return fmt.Errorf("%w: %s: %s must be 0-10", ErrValidationFailed, ex.ID, name)
		}
	}
	for g, v := range ex.Effectiveness.ByGoal {
		if !g.Valid() || v < 0 || v > 10 {
			return fmt.Errorf("%w: %s: effectiveness for %q must be a known goal rated 0-10", ErrValidationFailed, ex.ID, g)
		}
	}
	return nil
}
