package services

import (
	"context"
	"fmt"

	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// UnitRunner generates the content of one unit
type UnitRunner interface {
	Plan(ctx context.Context, in UnitInput) (UnitReport, error)
}

// Architect creates a course and its units, then runs the unit planner on
// every unit.
type Architect struct {
	caller modelCaller
	repo   ContentWriter
	units  UnitRunner
	logger *zap.Logger
}

// NewArchitect creates a new architect
func NewArchitect(gen StructuredGenerator, ctrl *retry.Controller, repo ContentWriter, units UnitRunner, logger *zap.Logger) *Architect {
	return &Architect{
		caller: modelCaller{gen: gen, ctrl: ctrl},
		repo:   repo,
		units:  units,
		logger: logger,
	}
}

// checkUnits validates the plan and drops units beyond the requested count.
func checkUnits(requested int) func(*unitsPlan) error {
	return func(plan *unitsPlan) error {
		if err := validate.Struct(plan); err != nil {
			return err
		}
		if len(plan.Units) > requested {
			plan.Units = plan.Units[:requested]
		}
		return nil
	}
}

// Build generates one course end to end. A returned error means the course
// was abandoned; unit failures are recorded in the report only.
func (a *Architect) Build(ctx context.Context, path models.PathConfig) (CourseReport, error) {
	report := CourseReport{Language: path.Language, Title: path.CourseTitle().VI}

	if err := path.Validate(); err != nil {
		return report, err
	}

	course, err := a.repo.InsertCourse(ctx, models.Course{
		Title:          path.CourseTitle(),
		TargetLanguage: path.Language,
		Description:    path.CourseDescription(),
	})
	if err != nil {
		return report, fmt.Errorf("failed to insert course: %w", err)
	}
	report.CourseID = course.ID
	log := a.logger.With(zap.Int64("course_id", course.ID), zap.String("language", path.Language))
	log.Info("course created", zap.String("title", course.Title.VI))

	plan, err := ask(ctx, a.caller, RoleArchitect, architectPrompt(path, course), checkUnits(path.UnitCount))
	if err != nil {
		return report, fmt.Errorf("failed to plan units: %w", err)
	}
	if len(plan.Units) < path.UnitCount {
		log.Warn("model returned fewer units than requested",
			zap.Int("requested", path.UnitCount),
			zap.Int("received", len(plan.Units)),
		)
	}

	rows := make([]models.Unit, len(plan.Units))
	for i, u := range plan.Units {
		rows[i] = models.Unit{CourseID: course.ID, Title: u.UnitTitle, Order: i + 1}
	}
	units, err := a.repo.InsertUnits(ctx, rows)
	if err != nil {
		return report, fmt.Errorf("failed to insert units: %w", err)
	}

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		ur, err := a.units.Plan(ctx, UnitInput{Unit: unit, Course: course, Path: path})
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Error("unit abandoned",
				zap.Int64("unit_id", unit.ID),
				zap.Int("unit_order", unit.Order),
				zap.String("role", RoleUnitPlanner),
				zap.Error(err),
			)
			ur.UnitID, ur.Order, ur.Title = unit.ID, unit.Order, unit.Title.VI
			ur.Status = StatusFailed
			ur.Error = err.Error()
		} else {
			ur.finish()
		}
		report.Units = append(report.Units, ur)
	}

	report.finish()
	return report, nil
}
