package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// UnitInput is everything the unit planner needs for one unit
type UnitInput struct {
	Unit   models.Unit
	Course models.Course
	Path   models.PathConfig
}

// LessonGenerator fills a regular lesson with activities
type LessonGenerator interface {
	Create(ctx context.Context, in LessonInput) (int, error)
}

// TestGenerator fills a unit test lesson with activities
type TestGenerator interface {
	Examine(ctx context.Context, in TestInput) (int, error)
}

const defaultSkillIcon = "book"

// UnitPlanner generates the skills and lessons of a unit and hands each
// lesson to the content creator, then closes the unit with a test lesson.
type UnitPlanner struct {
	caller   modelCaller
	repo     ContentWriter
	lessons  LessonGenerator
	examiner TestGenerator
	logger   *zap.Logger
}

// NewUnitPlanner creates a new unit planner
func NewUnitPlanner(gen StructuredGenerator, ctrl *retry.Controller, repo ContentWriter, lessons LessonGenerator, examiner TestGenerator, logger *zap.Logger) *UnitPlanner {
	return &UnitPlanner{
		caller:   modelCaller{gen: gen, ctrl: ctrl},
		repo:     repo,
		lessons:  lessons,
		examiner: examiner,
		logger:   logger,
	}
}

// checkSkills validates the plan and clamps it to the configured counts.
// Fewer skills or lessons than asked are accepted.
func (p *UnitPlanner) checkSkills(in UnitInput) func(*skillsPlan) error {
	return func(plan *skillsPlan) error {
		if err := validate.Struct(plan); err != nil {
			return err
		}
		if len(plan.Skills) > in.Path.SkillsPerUnit {
			plan.Skills = plan.Skills[:in.Path.SkillsPerUnit]
		}
		for i := range plan.Skills {
			if len(plan.Skills[i].Lessons) > in.Path.LessonsPerSkill {
				plan.Skills[i].Lessons = plan.Skills[i].Lessons[:in.Path.LessonsPerSkill]
			}
		}
		return nil
	}
}

// Plan runs the unit. A returned error means the unit was abandoned; lesson
// failures are recorded in the report and do not stop the unit.
func (p *UnitPlanner) Plan(ctx context.Context, in UnitInput) (UnitReport, error) {
	report := UnitReport{UnitID: in.Unit.ID, Order: in.Unit.Order, Title: in.Unit.Title.VI}
	log := p.logger.With(
		zap.Int64("course_id", in.Course.ID),
		zap.Int64("unit_id", in.Unit.ID),
	)

	plan, err := ask(ctx, p.caller, RoleUnitPlanner, unitPlannerPrompt(in), p.checkSkills(in))
	if err != nil {
		return report, fmt.Errorf("failed to plan unit %d: %w", in.Unit.Order, err)
	}
	if len(plan.Skills) < in.Path.SkillsPerUnit {
		log.Warn("model returned fewer skills than requested",
			zap.Int("requested", in.Path.SkillsPerUnit),
			zap.Int("received", len(plan.Skills)),
		)
	}

	var goals []string
	var lastSkill models.Skill
	lastSkillLessons := 0

	for i, sp := range plan.Skills {
		icon := strings.TrimSpace(sp.SkillIcon)
		if icon == "" {
			icon = defaultSkillIcon
		}
		skills, err := p.repo.InsertSkills(ctx, []models.Skill{{
			UnitID:   in.Unit.ID,
			Title:    sp.SkillTitle,
			IconName: icon,
			Order:    i + 1,
		}})
		if err != nil {
			return report, fmt.Errorf("failed to insert skill %d: %w", i+1, err)
		}
		skill := skills[0]

		for j, lp := range sp.Lessons {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			goals = append(goals, lp.Goal)

			lessons, err := p.repo.InsertLessons(ctx, []models.Lesson{{
				SkillID: skill.ID,
				Title:   lp.LessonTitle,
				Order:   j + 1,
			}})
			if err != nil {
				return report, fmt.Errorf("failed to insert lesson %d of skill %d: %w", j+1, i+1, err)
			}
			lesson := lessons[0]

			lr := LessonReport{LessonID: lesson.ID, SkillID: skill.ID, Order: lesson.Order, Title: lesson.Title.VI}
			n, err := p.lessons.Create(ctx, LessonInput{
				Lesson:         lesson,
				Goal:           lp.Goal,
				UnitTitle:      in.Unit.Title,
				CourseTitle:    in.Course.Title,
				TargetLanguage: in.Course.TargetLanguage,
			})
			if err != nil {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				log.Error("lesson skipped",
					zap.Int64("lesson_id", lesson.ID),
					zap.String("role", RoleContentCreator),
					zap.Error(err),
				)
				lr.Status = StatusFailed
				lr.Error = err.Error()
			} else {
				lr.Status = StatusSucceeded
				lr.Activities = n
			}
			report.Lessons = append(report.Lessons, lr)
		}

		lastSkill = skill
		lastSkillLessons = len(sp.Lessons)
	}

	if err := p.closeWithTest(ctx, in, lastSkill, lastSkillLessons, goals, &report, log); err != nil {
		return report, err
	}
	return report, nil
}

// closeWithTest attaches the unit test lesson to the last skill, right after
// its regular lessons, and runs the examiner on it.
func (p *UnitPlanner) closeWithTest(ctx context.Context, in UnitInput, skill models.Skill, skillLessons int, goals []string, report *UnitReport, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lessons, err := p.repo.InsertLessons(ctx, []models.Lesson{{
		SkillID: skill.ID,
		Title:   models.UnitTestTitle(in.Course.TargetLanguage, in.Unit.Order),
		Order:   skillLessons + 1,
		IsTest:  true,
	}})
	if err != nil {
		return fmt.Errorf("failed to insert unit test lesson: %w", err)
	}
	test := lessons[0]

	lr := LessonReport{LessonID: test.ID, SkillID: skill.ID, Order: test.Order, Title: test.Title.VI, IsTest: true}
	n, err := p.examiner.Examine(ctx, TestInput{
		Lesson:         test,
		Goals:          goals,
		UnitTitle:      in.Unit.Title,
		CourseTitle:    in.Course.Title,
		TargetLanguage: in.Course.TargetLanguage,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("unit test skipped",
			zap.Int64("lesson_id", test.ID),
			zap.String("role", RoleExaminer),
			zap.Error(err),
		)
		lr.Status = StatusFailed
		lr.Error = err.Error()
	} else {
		lr.Status = StatusSucceeded
		lr.Activities = n
	}
	report.Lessons = append(report.Lessons, lr)
	return nil
}
