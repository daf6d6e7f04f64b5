package services

import (
	"context"
	"fmt"

	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// TestInput is everything the examiner needs for a unit test
type TestInput struct {
	Lesson         models.Lesson
	Goals          []string
	UnitTitle      models.BilingualText
	CourseTitle    models.BilingualText
	TargetLanguage string
}

var testRules = activityRules{
	count: 8,
	allowed: []models.ActivityType{
		models.ActivityQuizMCQ,
		models.ActivityFillInBlank,
		models.ActivitySentenceScramble,
		models.ActivitySentenceTranslation,
	},
}

// Examiner generates the activities of a unit test lesson.
type Examiner struct {
	caller modelCaller
	repo   ActivityWriter
	logger *zap.Logger
}

// NewExaminer creates a new examiner
func NewExaminer(gen StructuredGenerator, ctrl *retry.Controller, repo ActivityWriter, logger *zap.Logger) *Examiner {
	return &Examiner{
		caller: modelCaller{gen: gen, ctrl: ctrl},
		repo:   repo,
		logger: logger,
	}
}

// Examine asks for eight test activities covering every goal of the unit
// and writes them with the test XP reward.
func (e *Examiner) Examine(ctx context.Context, in TestInput) (int, error) {
	items, err := ask(ctx, e.caller, RoleExaminer, examinerPrompt(in), testRules.check)
	if err != nil {
		return 0, fmt.Errorf("failed to generate test activities: %w", err)
	}

	activities := toActivities(in.Lesson.ID, items, models.XPRewardTest)
	if err := e.repo.InsertActivities(ctx, activities); err != nil {
		return 0, err
	}

	e.logger.Info("unit test activities created",
		zap.Int64("lesson_id", in.Lesson.ID),
		zap.String("role", RoleExaminer),
		zap.Int("goals", len(in.Goals)),
		zap.Int("activities", len(activities)),
	)
	return len(activities), nil
}
