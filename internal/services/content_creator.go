package services

import (
	"context"
	"fmt"

	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// LessonInput is everything the content creator needs for one lesson
type LessonInput struct {
	Lesson         models.Lesson
	Goal           string
	UnitTitle      models.BilingualText
	CourseTitle    models.BilingualText
	TargetLanguage string
}

// ActivityWriter is the part of ContentWriter used by activity planners
type ActivityWriter interface {
	InsertActivities(ctx context.Context, activities []models.Activity) error
}

var lessonRules = activityRules{
	count: 5,
	first: models.ActivityLessonContent,
	allowed: []models.ActivityType{
		models.ActivityQuizMCQ,
		models.ActivityFillInBlank,
		models.ActivitySentenceScramble,
	},
}

// ContentCreator generates the activities of a regular lesson.
type ContentCreator struct {
	caller modelCaller
	repo   ActivityWriter
	logger *zap.Logger
}

// NewContentCreator creates a new content creator
func NewContentCreator(gen StructuredGenerator, ctrl *retry.Controller, repo ActivityWriter, logger *zap.Logger) *ContentCreator {
	return &ContentCreator{
		caller: modelCaller{gen: gen, ctrl: ctrl},
		repo:   repo,
		logger: logger,
	}
}

// Create asks for five activities, the first a LESSON_CONTENT, and writes
// them with order 1..5. It returns the number of activities written.
func (c *ContentCreator) Create(ctx context.Context, in LessonInput) (int, error) {
	items, err := ask(ctx, c.caller, RoleContentCreator, contentCreatorPrompt(in), lessonRules.check)
	if err != nil {
		return 0, fmt.Errorf("failed to generate activities: %w", err)
	}

	activities := toActivities(in.Lesson.ID, items, models.XPRewardLesson)
	if err := c.repo.InsertActivities(ctx, activities); err != nil {
		return 0, err
	}

	c.logger.Info("lesson activities created",
		zap.Int64("lesson_id", in.Lesson.ID),
		zap.String("role", RoleContentCreator),
		zap.Int("activities", len(activities)),
	)
	return len(activities), nil
}
