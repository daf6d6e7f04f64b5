package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/llm"
	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/retry"
	"go.uber.org/zap"
)

// memStore is an in-memory implementation of ContentWriter and ContentReader
type memStore struct {
	nextID     int64
	courses    []models.Course
	units      []models.Unit
	skills     []models.Skill
	lessons    []models.Lesson
	activities []models.Activity
	deletes    []string
	// failInsert makes inserts into the named table fail
	failInsert string
	// failDelete makes DeleteAll fail
	failDelete bool
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InsertCourse(ctx context.Context, course models.Course) (models.Course, error) {
	if m.failInsert == models.TableCourses {
		return models.Course{}, apperr.NewWriteError(models.TableCourses, errors.New("insert failed"))
	}
	course.ID = m.id()
	m.courses = append(m.courses, course)
	return course, nil
}

func (m *memStore) InsertUnits(ctx context.Context, units []models.Unit) ([]models.Unit, error) {
	if m.failInsert == models.TableUnits {
		return nil, apperr.NewWriteError(models.TableUnits, errors.New("insert failed"))
	}
	out := make([]models.Unit, len(units))
	for i, u := range units {
		u.ID = m.id()
		out[i] = u
	}
	m.units = append(m.units, out...)
	return out, nil
}

func (m *memStore) InsertSkills(ctx context.Context, skills []models.Skill) ([]models.Skill, error) {
	if m.failInsert == models.TableSkills {
		return nil, apperr.NewWriteError(models.TableSkills, errors.New("insert failed"))
	}
	out := make([]models.Skill, len(skills))
	for i, s := range skills {
		s.ID = m.id()
		out[i] = s
	}
	m.skills = append(m.skills, out...)
	return out, nil
}

func (m *memStore) InsertLessons(ctx context.Context, lessons []models.Lesson) ([]models.Lesson, error) {
	if m.failInsert == models.TableLessons {
		return nil, apperr.NewWriteError(models.TableLessons, errors.New("insert failed"))
	}
	out := make([]models.Lesson, len(lessons))
	for i, l := range lessons {
		l.ID = m.id()
		out[i] = l
	}
	m.lessons = append(m.lessons, out...)
	return out, nil
}

func (m *memStore) InsertActivities(ctx context.Context, activities []models.Activity) error {
	if m.failInsert == models.TableActivities {
		return apperr.NewWriteError(models.TableActivities, errors.New("insert failed"))
	}
	for _, a := range activities {
		if err := models.ValidateContent(a.ActivityType, a.Content); err != nil {
			return apperr.NewWriteError(models.TableActivities, err)
		}
	}
	for _, a := range activities {
		a.ID = m.id()
		m.activities = append(m.activities, a)
	}
	return nil
}

func (m *memStore) DeleteAll(ctx context.Context, table string) error {
	if m.failDelete {
		return apperr.NewWriteError(table, errors.New("delete failed"))
	}
	m.deletes = append(m.deletes, table)
	switch table {
	case models.TableCourses:
		m.courses = nil
	case models.TableUnits:
		m.units = nil
	case models.TableSkills:
		m.skills = nil
	case models.TableLessons:
		m.lessons = nil
	case models.TableActivities:
		m.activities = nil
	}
	return nil
}

func (m *memStore) ListCourses(ctx context.Context, language string) ([]models.Course, error) {
	out := []models.Course{}
	for _, c := range m.courses {
		if language == "" || c.TargetLanguage == language {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memStore) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	for _, l := range m.lessons {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memStore) ListUnits(ctx context.Context, courseID int64) ([]models.Unit, error) {
	out := []models.Unit{}
	for _, u := range m.units {
		if u.CourseID == courseID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) ListSkills(ctx context.Context, unitIDs []int64) ([]models.Skill, error) {
	out := []models.Skill{}
	for _, id := range unitIDs {
		for _, s := range m.skills {
			if s.UnitID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *memStore) ListLessons(ctx context.Context, skillIDs []int64) ([]models.Lesson, error) {
	out := []models.Lesson{}
	for _, id := range skillIDs {
		for _, l := range m.lessons {
			if l.SkillID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (m *memStore) ListActivities(ctx context.Context, lessonID int64) ([]models.Activity, error) {
	return m.activitiesOf(lessonID), nil
}

func (m *memStore) activitiesOf(lessonID int64) []models.Activity {
	out := []models.Activity{}
	for _, a := range m.activities {
		if a.LessonID == lessonID {
			out = append(out, a)
		}
	}
	return out
}

// scriptedModel is a llm.Generator that answers by planner role.
// reply receives the role, the prompt and the 1-based call count for that role.
type scriptedModel struct {
	mu    sync.Mutex
	calls map[string]int
	reply func(role, prompt string, call int) (string, error)
}

func newScriptedModel(reply func(role, prompt string, call int) (string, error)) *scriptedModel {
	return &scriptedModel{calls: map[string]int{}, reply: reply}
}

func roleOf(prompt string) string {
	switch {
	case strings.Contains(prompt, "curriculum architect"):
		return RoleArchitect
	case strings.Contains(prompt, "You are planning unit"):
		return RoleUnitPlanner
	case strings.Contains(prompt, "final test"):
		return RoleExaminer
	}
	return RoleContentCreator
}

func (s *scriptedModel) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	role := roleOf(prompt)
	s.calls[role]++
	call := s.calls[role]
	s.mu.Unlock()
	return s.reply(role, prompt, call)
}

func (s *scriptedModel) Model() string { return "scripted" }

func (s *scriptedModel) callsFor(role string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[role]
}

// cannedReply answers every role with valid content for the given counts
func cannedReply(units, skills, lessons int) func(role, prompt string, call int) (string, error) {
	return func(role, prompt string, call int) (string, error) {
		switch role {
		case RoleArchitect:
			return unitsReply(units), nil
		case RoleUnitPlanner:
			return skillsReply(skills, lessons), nil
		case RoleExaminer:
			return testActivitiesReply, nil
		}
		return lessonActivitiesReply, nil
	}
}

func unitsReply(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"unit_title":{"vi":"Chương %d","en":"Unit %d"}}`, i+1, i+1)
	}
	return `{"units":[` + strings.Join(items, ",") + `]}`
}

func skillsReply(skills, lessons int) string {
	items := make([]string, skills)
	for i := range items {
		ls := make([]string, lessons)
		for j := range ls {
			ls[j] = fmt.Sprintf(`{"lesson_title":{"vi":"Bài %d.%d","en":"Lesson %d.%d"},"goal":"Mục tiêu %d.%d"}`, i+1, j+1, i+1, j+1, i+1, j+1)
		}
		items[i] = fmt.Sprintf(`{"skill_title":{"vi":"Kỹ năng %d","en":"Skill %d"},"skill_icon":"chat","lessons":[%s]}`, i+1, i+1, strings.Join(ls, ","))
	}
	return "```json\n{\"skills\":[" + strings.Join(items, ",") + "]}\n```"
}

const lessonActivitiesReply = `Here are the activities:
[
  {"activity_type":"LESSON_CONTENT","content":{"html_content":"<h2>Động từ to be</h2><p>I am, you are, she is.</p>"}},
  {"activity_type":"QUIZ_MCQ","content":{"question_text":"I ___ a student.","options":["am","is","are"],"correct_answer":"am","hint":"Chủ ngữ I đi với am"}},
  {"activity_type":"FILL_IN_BLANK","content":{"sentence_template":"I ___ tired.","correct_answer":"am","hint":"Động từ to be"}},
  {"activity_type":"SENTENCE_SCRAMBLE","content":{"scrambled_words":["tired","I","am"],"correct_sentence":"I am tired","hint":"Chủ ngữ đứng đầu"}},
  {"activity_type":"FILL_IN_BLANK","content":{"sentence_parts":["She ", " a teacher."],"correct_answer":"is","hint":"Ngôi thứ ba số ít"}}
]`

const testActivitiesReply = `{"activities":[
  {"activity_type":"QUIZ_MCQ","content":{"question":"Chọn câu đúng","options":[{"text":"I is tired"},{"text":"I am tired","is_correct":true}],"hint":"to be"}},
  {"activity_type":"FILL_IN_BLANK","content":{"sentence_template":"They ___ friends.","correct_answer":"are","hint":"số nhiều"}},
  {"activity_type":"SENTENCE_SCRAMBLE","content":{"scrambled_sentence":"student / a / am / I","correct_sentence":"I am a student","hint":"S + V + O"}},
  {"activity_type":"SENTENCE_TRANSLATION","content":{"source_sentence":"Tôi mệt.","target_sentence":"I am tired.","hint":"to be"}},
  {"activity_type":"QUIZ_MCQ","content":{"question_text":"She ___ a doctor.","options":["am","is"],"correct_answer":"is","hint":"ngôi thứ ba"}},
  {"activity_type":"FILL_IN_BLANK","content":{"sentence_parts":["We ", " happy."],"correct_answer":"are","hint":"số nhiều"}},
  {"activity_type":"SENTENCE_SCRAMBLE","content":{"scrambled_words":["is","He","tall"],"correct_sentence":"He is tall","hint":"S + V"}},
  {"activity_type":"SENTENCE_TRANSLATION","content":{"source_sentence":"Chúng tôi là bạn.","target_sentence":"We are friends.","hint":"số nhiều"}}
]}`

func newTestController() *retry.Controller {
	return retry.NewController(retry.None{}, retry.Config{InitialBackoff: time.Microsecond, MaxBackoff: time.Microsecond}, zap.NewNop())
}

func newTestPipeline(t *testing.T, model *scriptedModel, store *memStore) *Pipeline {
	t.Helper()
	gateway := llm.NewGateway(model, zap.NewNop())
	return NewGenerationPipeline(gateway, newTestController(), store, zap.NewNop())
}

func englishPath(units, skills, lessons int) models.PathConfig {
	return models.PathConfig{
		Language:        "Tiếng Anh",
		StartLevel:      "A2",
		TargetLevel:     "B1",
		UnitCount:       units,
		SkillsPerUnit:   skills,
		LessonsPerSkill: lessons,
	}
}
