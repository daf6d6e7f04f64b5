package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// CourseBuilder generates one course from a path config
type CourseBuilder interface {
	Build(ctx context.Context, path models.PathConfig) (CourseReport, error)
}

// Pipeline resets the content tables and generates every configured path,
// one after another.
type Pipeline struct {
	repo      ContentWriter
	architect CourseBuilder
	logger    *zap.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline driver
func NewPipeline(repo ContentWriter, architect CourseBuilder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		repo:      repo,
		architect: architect,
		logger:    logger,
		now:       time.Now,
	}
}

// NewGenerationPipeline wires the four planners around one model gateway,
// retry controller and store.
func NewGenerationPipeline(gen StructuredGenerator, ctrl *retry.Controller, repo ContentWriter, logger *zap.Logger) *Pipeline {
	creator := NewContentCreator(gen, ctrl, repo, logger)
	examiner := NewExaminer(gen, ctrl, repo, logger)
	units := NewUnitPlanner(gen, ctrl, repo, creator, examiner, logger)
	architect := NewArchitect(gen, ctrl, repo, units, logger)
	return NewPipeline(repo, architect, logger)
}

// Reset empties the content tables children-first.
func (p *Pipeline) Reset(ctx context.Context) error {
	for _, table := range models.ResetOrder {
		if err := p.repo.DeleteAll(ctx, table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
		p.logger.Debug("table reset", zap.String("table", table))
	}
	return nil
}

// Run resets the store and generates each path in order. The returned error
// is non-nil only when the reset fails or ctx is cancelled; course failures
// are recorded in the report.
func (p *Pipeline) Run(ctx context.Context, paths []models.PathConfig) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString(), StartedAt: p.now()}
	log := p.logger.With(zap.String("run_id", report.RunID))
	defer func() { report.FinishedAt = p.now() }()

	log.Info("resetting content tables")
	if err := p.Reset(ctx); err != nil {
		return report, err
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log.Info("generating course",
			zap.Int("path", i+1),
			zap.Int("paths", len(paths)),
			zap.String("language", path.Language),
		)
		cr, err := p.architect.Build(ctx, path)
		if err != nil {
			fatal := &apperr.FatalDriverError{Course: path.Language, Err: err}
			cr.Status = StatusFailed
			cr.Error = fatal.Error()
			report.Courses = append(report.Courses, cr)
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Error("course abandoned",
				zap.String("language", path.Language),
				zap.Int64("course_id", cr.CourseID),
				zap.String("role", RoleArchitect),
				zap.Error(fatal),
			)
			continue
		}
		report.Courses = append(report.Courses, cr)
	}

	return report, nil
}
