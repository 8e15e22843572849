// Package pipeline orchestrates the batch recommendation run: load,
// normalize, fit, score, optional feedback simulation, write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kindredhq/kindred/internal/config"
	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
	"github.com/kindredhq/kindred/internal/domain/schema"
	"github.com/kindredhq/kindred/internal/logger"
	"github.com/kindredhq/kindred/internal/metrics"
	"github.com/kindredhq/kindred/internal/usecase/feedback"
	"github.com/kindredhq/kindred/internal/usecase/normalize"
	"github.com/kindredhq/kindred/internal/usecase/profile"
	"github.com/kindredhq/kindred/internal/usecase/scorer"
	"github.com/kindredhq/kindred/internal/usecase/vectorspace"
)

// Summary reports what a run produced.
type Summary struct {
	RunID           string
	Users           int
	Items           int
	VocabularySize  int
	ColdStartUsers  int
	Recommendations int
	FeedbackEvents  int
}

// Service runs the batch pipeline end to end.
type Service struct {
	datasets DatasetLoader
	output   OutputWriter
	norm     *normalize.Service
	cfg      config.Config
}

// New creates a pipeline service.
func New(datasets DatasetLoader, output OutputWriter, cfg config.Config) *Service {
	return &Service{
		datasets: datasets,
		output:   output,
		norm:     normalize.New(),
		cfg:      cfg,
	}
}

// Run executes one batch run. Schema, encoding, and IO failures abort the
// run; an empty catalog for one item type degrades to an empty list for that
// type, and users the scorer cannot resolve are skipped.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With(zap.String("run_id", runID))
	summary := Summary{RunID: runID}

	schemas, err := loadSchemas()
	if err != nil {
		return summary, err
	}

	users, items, err := s.loadAndNormalize(log, schemas)
	if err != nil {
		return summary, err
	}
	summary.Users = len(users)
	for _, list := range items {
		summary.Items += len(list)
	}

	model := s.fit(schemas, users, items)
	summary.VocabularySize = model.Vocabulary().Size()
	log.Info("vector space fitted",
		zap.Int("vocabulary_size", summary.VocabularySize),
		zap.Int("documents", summary.Users+summary.Items))

	svc := scorer.New(model, users, items, scorer.Boosts{
		City:     s.cfg.Scoring.Boosts.City,
		Category: s.cfg.Scoring.Boosts.Category,
		Tag:      s.cfg.Scoring.Boosts.Tag,
	}, s.cfg.Pipeline.TopN)

	results, err := s.score(log, svc, users, &summary)
	if err != nil {
		return summary, err
	}

	start := time.Now()
	if err := s.output.Write(results); err != nil {
		return summary, fmt.Errorf("write output: %w", err)
	}
	metrics.StageDuration.WithLabelValues("write").Observe(time.Since(start).Seconds())

	log.Info("pipeline run complete",
		zap.Int("users", summary.Users),
		zap.Int("items", summary.Items),
		zap.Int("recommendations", summary.Recommendations),
		zap.Int("cold_start_users", summary.ColdStartUsers),
		zap.Int("feedback_events", summary.FeedbackEvents))
	return summary, nil
}

// loadSchemas resolves the built-in schema for every entity type once, so
// later stages never hit a schema error mid-run.
func loadSchemas() (map[entity.Type]schema.Schema, error) {
	schemas := make(map[entity.Type]schema.Schema, 4)
	for _, typ := range append([]entity.Type{entity.User}, entity.ItemTypes()...) {
		sch, err := schema.ForType(typ)
		if err != nil {
			return nil, err
		}
		schemas[typ] = sch
	}
	return schemas, nil
}

// loadAndNormalize reads all four tables and maps them onto canonical
// entities. Rows without an identifier are dropped and counted.
func (s *Service) loadAndNormalize(
	log *zap.Logger, schemas map[entity.Type]schema.Schema,
) ([]entity.Entity, map[entity.Type][]entity.Entity, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("load").Observe(time.Since(start).Seconds())
	}()

	var users []entity.Entity
	items := make(map[entity.Type][]entity.Entity)

	for _, typ := range append([]entity.Type{entity.User}, entity.ItemTypes()...) {
		records, err := s.datasets.Load(typ)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", typ.Plural(), err)
		}

		entities, dropped := s.norm.NormalizeAll(schemas[typ], records)
		metrics.RowsLoadedTotal.WithLabelValues(typ.String()).Add(float64(len(records)))
		metrics.RowsDroppedTotal.WithLabelValues(typ.String()).Add(float64(dropped))
		if dropped > 0 {
			log.Warn("dropped rows without identifier",
				zap.String("entity_type", typ.String()), zap.Int("dropped", dropped))
		}
		log.Info("table loaded",
			zap.String("entity_type", typ.String()), zap.Int("rows", len(entities)))

		if typ == entity.User {
			users = entities
		} else {
			items[typ] = entities
		}
	}
	return users, items, nil
}

// fit builds text profiles for every entity and fits the shared vocabulary.
func (s *Service) fit(
	schemas map[entity.Type]schema.Schema,
	users []entity.Entity, items map[entity.Type][]entity.Entity,
) vectorspace.Model {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("fit").Observe(time.Since(start).Seconds())
	}()

	var docs []vectorspace.Document
	appendDocs := func(typ entity.Type, entities []entity.Entity) {
		for i := range entities {
			docs = append(docs, vectorspace.Document{
				ID:   entities[i].ID(),
				Type: typ,
				Text: profile.Build(schemas[typ], entities[i]),
			})
		}
	}

	appendDocs(entity.User, users)
	for _, typ := range entity.ItemTypes() {
		appendDocs(typ, items[typ])
	}

	model := vectorspace.Fit(docs)
	metrics.VocabularySize.Set(float64(model.Vocabulary().Size()))
	metrics.DocumentsFittedTotal.Add(float64(len(docs)))
	return model
}

// score ranks every item type for every user. Users are processed in id
// order so the seeded feedback stream is consumed deterministically.
func (s *Service) score(
	log *zap.Logger, svc *scorer.Service, users []entity.Entity, summary *Summary,
) (map[string]map[entity.Type][]recommendation.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("score").Observe(time.Since(start).Seconds())
	}()

	userIDs := make([]string, 0, len(users))
	for i := range users {
		userIDs = append(userIDs, users[i].ID())
	}
	sort.Strings(userIDs)

	var sim *feedback.Simulator
	var rng *rand.Rand
	if s.cfg.Feedback.Enabled {
		sim = feedback.New(
			s.cfg.Feedback.PositiveRatio, s.cfg.Feedback.NegativeRatio,
			s.cfg.Feedback.LikeWeight, s.cfg.Feedback.DislikeWeight,
		)
		rng = rand.New(rand.NewSource(s.cfg.Feedback.Seed))
	}

	emptyWarned := make(map[entity.Type]bool)
	results := make(map[string]map[entity.Type][]recommendation.Recommendation, len(userIDs))

	for _, userID := range userIDs {
		if svc.ColdStart(userID) {
			metrics.ColdStartUsersTotal.Inc()
			summary.ColdStartUsers++
		}

		perType := make(map[entity.Type][]recommendation.Recommendation, 3)
		for _, typ := range entity.ItemTypes() {
			recs, err := svc.Recommend(userID, typ)
			switch {
			case errors.Is(err, domain.ErrEmptyCatalog):
				if !emptyWarned[typ] {
					log.Warn("catalog empty, emitting empty lists",
						zap.String("item_type", typ.String()))
					emptyWarned[typ] = true
				}
				recs = []recommendation.Recommendation{}
			case errors.Is(err, domain.ErrUnknownUser):
				log.Warn("user missing from fitted space, skipping",
					zap.String("user_id", userID))
				continue
			case err != nil:
				return nil, fmt.Errorf("recommend %s for %s: %w", typ, userID, err)
			}

			if sim != nil && len(recs) > 0 {
				events := sim.Simulate(recs, rng)
				for _, ev := range events {
					metrics.FeedbackEventsTotal.WithLabelValues(string(ev.Polarity())).Inc()
				}
				summary.FeedbackEvents += len(events)
				recs = sim.Apply(recs, events)
			}

			metrics.RecommendationsTotal.WithLabelValues(typ.String()).Add(float64(len(recs)))
			summary.Recommendations += len(recs)
			perType[typ] = recs
		}
		results[userID] = perType
	}
	return results, nil
}
