package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/llm"
	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
)

// Planner roles, used in logs and in the run report.
const (
	RoleArchitect      = "architect"
	RoleUnitPlanner    = "unit_planner"
	RoleContentCreator = "content_creator"
	RoleExaminer       = "examiner"
)

var validate = validator.New()

// modelCaller sends prompts through the retry controller.
type modelCaller struct {
	gen  StructuredGenerator
	ctrl *retry.Controller
}

// ask runs one retried model call. The reply is decoded into T and checked
// inside the retried operation, so a reply of the wrong shape is retried
// like a transport failure.
func ask[T any](ctx context.Context, c modelCaller, role, prompt string, check func(*T) error) (T, error) {
	return retry.Do(ctx, c.ctrl, role, func(ctx context.Context) (T, error) {
		var out T
		payload, err := c.gen.GenerateStructured(ctx, prompt)
		if err != nil {
			return out, err
		}
		if err := llm.Decode(payload, &out); err != nil {
			return out, err
		}
		if check != nil {
			if err := check(&out); err != nil {
				return out, apperr.NewMalformed(role+" reply has the wrong shape", string(payload), err)
			}
		}
		return out, nil
	})
}

type unitsPlan struct {
	Units []unitPlan `json:"units" validate:"min=1,dive"`
}

type unitPlan struct {
	UnitTitle models.BilingualText `json:"unit_title"`
}

type skillsPlan struct {
	Skills []skillPlan `json:"skills" validate:"min=1,dive"`
}

type skillPlan struct {
	SkillTitle models.BilingualText `json:"skill_title"`
	SkillIcon  string               `json:"skill_icon"`
	Lessons    []lessonPlan         `json:"lessons" validate:"min=1,dive"`
}

type lessonPlan struct {
	LessonTitle models.BilingualText `json:"lesson_title"`
	Goal        string               `json:"goal" validate:"required"`
}

type generatedActivity struct {
	ActivityType models.ActivityType `json:"activity_type"`
	Content      json.RawMessage     `json:"content"`
}

// activityList accepts a bare array or an object wrapping it in "activities".
type activityList []generatedActivity

func (l *activityList) UnmarshalJSON(data []byte) error {
	var items []generatedActivity
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var wrapped struct {
		Activities []generatedActivity `json:"activities"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Activities
	return nil
}

// activityRules describes what a planner must get back for one lesson.
type activityRules struct {
	count int
	// first, when set, is the required type of the first activity
	first   models.ActivityType
	allowed []models.ActivityType
}

func (r activityRules) allows(t models.ActivityType) bool {
	for _, a := range r.allowed {
		if a == t {
			return true
		}
	}
	return false
}

// check verifies the list against the rules and clamps extras.
func (r activityRules) check(list *activityList) error {
	items := *list
	if len(items) < r.count {
		return fmt.Errorf("expected %d activities, got %d", r.count, len(items))
	}
	items = items[:r.count]

	for i, a := range items {
		switch {
		case i == 0 && r.first != "":
			if a.ActivityType != r.first {
				return fmt.Errorf("activity 1 must be %s, got %s", r.first, a.ActivityType)
			}
		case !r.allows(a.ActivityType):
			return fmt.Errorf("activity %d has disallowed type %s", i+1, a.ActivityType)
		default:
			if !models.HasHint(a.Content) {
				return fmt.Errorf("activity %d (%s) has no hint", i+1, a.ActivityType)
			}
		}
		if err := models.ValidateContent(a.ActivityType, a.Content); err != nil {
			return fmt.Errorf("activity %d (%s): %w", i+1, a.ActivityType, err)
		}
	}

	*list = items
	return nil
}

// toActivities numbers generated activities 1..N for lessonID.
func toActivities(lessonID int64, items activityList, xp int) []models.Activity {
	out := make([]models.Activity, len(items))
	for i, a := range items {
		out[i] = models.Activity{
			LessonID:     lessonID,
			Order:        i + 1,
			ActivityType: a.ActivityType,
			Content:      a.Content,
			XPReward:     xp,
		}
	}
	return out
}
