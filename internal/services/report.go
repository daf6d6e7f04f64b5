package services

import (
	"time"

	"go.uber.org/zap"
)

// Status is the outcome of one scope of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// RunReport records what a pipeline run produced, per course, unit and lesson.
type RunReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Courses    []CourseReport `json:"courses"`
}

// CourseReport is the outcome of one configured path.
type CourseReport struct {
	Language string       `json:"language"`
	CourseID int64        `json:"course_id,omitempty"`
	Title    string       `json:"title"`
	Status   Status       `json:"status"`
	Error    string       `json:"error,omitempty"`
	Units    []UnitReport `json:"units,omitempty"`
}

// UnitReport is the outcome of one unit.
type UnitReport struct {
	UnitID  int64          `json:"unit_id"`
	Order   int            `json:"order"`
	Title   string         `json:"title"`
	Status  Status         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Lessons []LessonReport `json:"lessons,omitempty"`
}

// LessonReport is the outcome of one lesson's activities.
type LessonReport struct {
	LessonID   int64  `json:"lesson_id"`
	SkillID    int64  `json:"skill_id"`
	Order      int    `json:"order"`
	Title      string `json:"title"`
	IsTest     bool   `json:"is_test"`
	Activities int    `json:"activities"`
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
}

// Summary counts scopes by status
type Summary struct {
	Courses map[Status]int
	Units   map[Status]int
	Lessons map[Status]int
	// Activities is the number of activities written
	Activities int
}

// finish derives the unit status from its lessons unless it already failed.
func (u *UnitReport) finish() {
	if u.Status == StatusFailed {
		return
	}
	u.Status = StatusSucceeded
	for _, l := range u.Lessons {
		if l.Status != StatusSucceeded {
			u.Status = StatusPartial
			return
		}
	}
}

// finish derives the course status from its units unless it already failed.
func (c *CourseReport) finish() {
	if c.Status == StatusFailed {
		return
	}
	c.Status = StatusSucceeded
	for _, u := range c.Units {
		if u.Status != StatusSucceeded {
			c.Status = StatusPartial
			return
		}
	}
}

// Summarize counts courses, units and lessons by status.
func (r *RunReport) Summarize() Summary {
	s := Summary{
		Courses: map[Status]int{},
		Units:   map[Status]int{},
		Lessons: map[Status]int{},
	}
	for _, c := range r.Courses {
		s.Courses[c.Status]++
		for _, u := range c.Units {
			s.Units[u.Status]++
			for _, l := range u.Lessons {
				s.Lessons[l.Status]++
				s.Activities += l.Activities
			}
		}
	}
	return s
}

// Log writes a one-line summary plus one line per course that did not fully succeed.
func (r *RunReport) Log(logger *zap.Logger) {
	s := r.Summarize()
	logger.Info("generation run finished",
		zap.String("run_id", r.RunID),
		zap.Duration("duration", r.FinishedAt.Sub(r.StartedAt)),
		zap.Any("courses", s.Courses),
		zap.Any("units", s.Units),
		zap.Any("lessons", s.Lessons),
		zap.Int("activities", s.Activities),
	)
	for _, c := range r.Courses {
		if c.Status == StatusSucceeded {
			continue
		}
		logger.Warn("course incomplete",
			zap.String("run_id", r.RunID),
			zap.String("language", c.Language),
			zap.Int64("course_id", c.CourseID),
			zap.String("status", string(c.Status)),
			zap.String("error", c.Error),
		)
	}
}
