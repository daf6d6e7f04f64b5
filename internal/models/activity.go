package models

import "encoding/json"

// ActivityType represents the kind of exercise stored in an activity row
type ActivityType string

const (
	ActivityLessonContent       ActivityType = "LESSON_CONTENT"
	ActivityQuizMCQ             ActivityType = "QUIZ_MCQ"
	ActivityFillInBlank         ActivityType = "FILL_IN_BLANK"
	ActivitySentenceScramble    ActivityType = "SENTENCE_SCRAMBLE"
	ActivitySentenceTranslation ActivityType = "SENTENCE_TRANSLATION"
	ActivityPronunciation       ActivityType = "PRONUNCIATION"
	ActivityConversation        ActivityType = "CONVERSATION"
	ActivityQuiz                ActivityType = "QUIZ"
)

// XP rewards for generated activities.
const (
	XPRewardLesson = 25
	XPRewardTest   = 50
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLessonContent, ActivityQuizMCQ, ActivityFillInBlank, ActivitySentenceScramble,
		ActivitySentenceTranslation, ActivityPronunciation, ActivityConversation, ActivityQuiz:
		return true
	}
	return false
}

// Activity is a single learner-facing exercise inside a lesson.
// Content is a JSON document whose shape depends on ActivityType.
type Activity struct {
	ID           int64           `json:"id"`
	LessonID     int64           `json:"lesson_id"`
	Order        int             `json:"order"`
	ActivityType ActivityType    `json:"activity_type"`
	Content      json.RawMessage `json:"content"`
	XPReward     int             `json:"xp_reward"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID           int64           `json:"id"`
	Order        int             `json:"order"`
	ActivityType ActivityType    `json:"activity_type"`
	Content      json.RawMessage `json:"content"`
	XPReward     int             `json:"xp_reward"`
}
