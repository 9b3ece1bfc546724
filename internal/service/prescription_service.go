package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/observability"
	"musclemap/prescription-engine/internal/prescription"
	"musclemap/prescription-engine/internal/repository"
	"musclemap/prescription-engine/internal/storage"
)

var (
	ErrPrescriptionNotFound     = errors.New("prescription not found")
	ErrPrescriptionAccessDenied = errors.New("prescription belongs to another user")
	ErrInvalidRequest           = errors.New("invalid prescription request")
)

const maxTimeAvailable = 240

// GenerateRequest holds the request-scoped part of the user context. Set
// fields replace the stored profile's values for this request only.
type GenerateRequest struct {
	AvailableEquipment []string              `json:"availableEquipment"`
	Location           domain.Location       `json:"location"`
	TimeAvailable      int                   `json:"timeAvailable"`
	Goals              []domain.Goal         `json:"goals"`
	Phase              domain.TrainingPhase  `json:"phase"`
	Recovery           *domain.RecoveryScore `json:"recoveryScore"`
	TargetMuscles      []string              `json:"targetMuscles"`
	ExcludeMuscles     []string              `json:"excludeMuscles"`
}

func (r GenerateRequest) validate() error {
	if r.TimeAvailable < 0 || r.TimeAvailable > maxTimeAvailable {
		return fmt.Errorf("%w: timeAvailable must be 0-%d minutes", ErrInvalidRequest, maxTimeAvailable)
	}
	if r.Location != "" && !r.Location.Valid() {
		return fmt.Errorf("%w: unknown location %q", ErrInvalidRequest, r.Location)
	}
	if r.Phase != "" && !r.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidRequest, r.Phase)
	}
	for _, g := range r.Goals {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown goal %q", ErrInvalidRequest, g)
		}
	}
	if r.Recovery != nil && !r.Recovery.Classification.Valid() {
		return fmt.Errorf("%w: unknown recovery classification %q", ErrInvalidRequest, r.Recovery.Classification)
	}
	return nil
}

type PrescriptionService interface {
	Generate(ctx context.Context, userID string, req GenerateRequest) (*domain.PrescriptionResult, error)
	Get(ctx context.Context, userID, id string) (*domain.PrescriptionResult, error)
}

type prescriptionService struct {
	log     *logger.Logger
	store   repository.Store
	cache   *cache.TieredCache
	builder *prescription.Builder
	media   storage.MediaStorage // optional
	now     func() time.Time
}

func NewPrescriptionService(log *logger.Logger, store repository.Store, c *cache.TieredCache, builder *prescription.Builder, media storage.MediaStorage) PrescriptionService {
	return &prescriptionService{
		log:     logger.OrNop(log).With("component", "PrescriptionService"),
		store:   store,
		cache:   c,
		builder: builder,
		media:   media,
		now:     time.Now,
	}
}

// cachedExercise keeps the video key, which the exercise JSON omits.
type cachedExercise struct {
	Exercise       *domain.ExerciseMetadata `json:"exercise"`
	VideoObjectKey string                   `json:"videoObjectKey,omitempty"`
}

// sessionInputs is everything loaded from the data layer for one build.
type sessionInputs struct {
	catalog  []cachedExercise
	profile  *domain.UserProfile
	recovery *domain.RecoveryScore
	perf     []*domain.UserExercisePerformance
	volume   domain.MuscleVolume
	weights  *domain.AdaptiveUserWeights
}

func (s *prescriptionService) Generate(ctx context.Context, userID string, req GenerateRequest) (result *domain.PrescriptionResult, err error) {
	ctx, span := observability.Tracer().Start(ctx, "prescription.generate")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidRequest)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	in, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	user := domain.ContextFromProfile(in.profile)
	user.UserID = userID
	user.Recovery = in.recovery
	overlay(user, req)

	catalog := make([]*domain.ExerciseMetadata, 0, len(in.catalog))
	for _, c := range in.catalog {
		catalog = append(catalog, c.Exercise)
	}
	perfByID := make(map[string]*domain.UserExercisePerformance, len(in.perf))
	for _, p := range in.perf {
		perfByID[p.ExerciseID] = p
	}

	result, err = s.builder.Build(ctx, prescription.Request{
		User:           user,
		Catalog:        catalog,
		Performance:    perfByID,
		Volume:         in.volume,
		Weights:        in.weights,
		TargetMuscles:  req.TargetMuscles,
		ExcludeMuscles: req.ExcludeMuscles,
		Now:            s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	result.ID = uuid.NewString()
	span.SetAttributes(
		attribute.String("prescription.id", result.ID),
		attribute.Int("prescription.exercises", len(result.Exercises)),
		attribute.Int("prescription.candidates", result.Metadata.CandidatesScored),
	)

	if err := s.store.Prescriptions.Create(ctx, result); err != nil {
		s.log.Error("prescription not persisted", "userId", userID, "prescriptionId", result.ID, "error", err)
	}
	s.attachVideos(ctx, result, in.catalog)
	return result, nil
}

// overlay applies request-scoped fields onto the profile-derived context.
func overlay(u *domain.UserContext, req GenerateRequest) {
	u.AvailableEquipment = req.AvailableEquipment
	u.Location = req.Location
	u.TimeAvailable = req.TimeAvailable
	u.Goals = req.Goals
	u.Phase = req.Phase
	if req.Recovery != nil {
		u.Recovery = req.Recovery
	}
}

// loadInputs reads every input cache-through, concurrently.
func (s *prescriptionService) loadInputs(ctx context.Context, userID string) (*sessionInputs, error) {
	in := &sessionInputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		in.catalog, err = s.catalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.profile, err = cache.Fetch(gctx, s.cache, cache.EntityUserContext, userID, func(ctx context.Context) (*domain.UserProfile, error) {
			p, err := s.store.Profiles.GetProfile(ctx, userID)
			if errors.Is(err, repository.ErrNotFound) {
				return &domain.UserProfile{UserID: userID}, nil
			}
			return p, err
		})
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.recovery, err = cache.Fetch(gctx, s.cache, cache.EntityRecoveryScore, userID, func(ctx context.Context) (*domain.RecoveryScore, error) {
			r, err := s.store.Profiles.GetRecoveryScore(ctx, userID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil
			}
			return r, err
		})
		if err != nil {
			return fmt.Errorf("load recovery score: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.perf, err = cache.Fetch(gctx, s.cache, cache.EntityUserPerformance, userID, func(ctx context.Context) ([]*domain.UserExercisePerformance, error) {
			return s.store.Performance.ListByUser(ctx, userID)
		})
		if err != nil {
			return fmt.Errorf("load performance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.volume, err = cache.Fetch(gctx, s.cache, cache.EntityMuscleStats, userID, func(ctx context.Context) (domain.MuscleVolume, error) {
			return s.store.MuscleStats.GetVolume(ctx, userID)
		})
		if err != nil {
			return fmt.Errorf("load muscle volume: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.weights, err = cache.Fetch(gctx, s.cache, cache.EntityUserWeights, userID, func(ctx context.Context) (*domain.AdaptiveUserWeights, error) {
			w, err := s.store.Weights.Get(ctx, userID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil
			}
			return w, err
		})
		if err != nil {
			return fmt.Errorf("load adaptive weights: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *prescriptionService) catalog(ctx context.Context) ([]cachedExercise, error) {
	entries, err := cache.Fetch(ctx, s.cache, cache.EntityExerciseMetadata, cache.CatalogKey, func(ctx context.Context) ([]cachedExercise, error) {
		list, err := s.store.Exercises.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]cachedExercise, 0, len(list))
		for _, ex := range list {
			out = append(out, cachedExercise{Exercise: ex, VideoObjectKey: ex.VideoObjectKey})
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, e := range entries {
		if e.Exercise != nil {
			e.Exercise.VideoObjectKey = e.VideoObjectKey
		}
	}
	return entries, nil
}

// attachVideos presigns demo videos. Failures leave the URL empty.
func (s *prescriptionService) attachVideos(ctx context.Context, p *domain.PrescriptionResult, catalog []cachedExercise) {
	if s.media == nil {
		return
	}
	keys := make(map[string]string, len(catalog))
	for _, c := range catalog {
		if c.Exercise != nil && c.VideoObjectKey != "" {
			keys[c.Exercise.ID] = c.VideoObjectKey
		}
	}
	for i := range p.Exercises {
		key, ok := keys[p.Exercises[i].ExerciseID]
		if !ok {
			continue
		}
		url, err := s.media.PresignDownload(ctx, key)
		if err != nil {
			s.log.Warn("demo video not presigned", "exerciseId", p.Exercises[i].ExerciseID, "error", err)
			continue
		}
		p.Exercises[i].DemoVideoURL = url
	}
}

func (s *prescriptionService) Get(ctx context.Context, userID, id string) (*domain.PrescriptionResult, error) {
	p, err := s.store.Prescriptions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPrescriptionNotFound
	} else if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPrescriptionAccessDenied
	}
	if s.media != nil {
		catalog, err := s.catalog(ctx)
		if err != nil {
			s.log.Warn("catalog unavailable for demo videos", "error", err)
		} else {
			s.attachVideos(ctx, p, catalog)
		}
	}
	return p, nil
}
