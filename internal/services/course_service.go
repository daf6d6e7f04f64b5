package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lingopath/backend/internal/models"
	"go.uber.org/zap"
)

type courseService struct {
	repo   ContentReader
	logger *zap.Logger
}

// NewCourseService creates a read service for generated courses
func NewCourseService(repo ContentReader, logger *zap.Logger) *courseService {
	return &courseService{
		repo:   repo,
		logger: logger,
	}
}

// ListCourses returns all courses with display titles. language filters by
// target language when not empty.
func (s *courseService) ListCourses(ctx context.Context, language string) ([]models.CourseListItem, error) {
	courses, err := s.repo.ListCourses(ctx, strings.TrimSpace(language))
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	items := make([]models.CourseListItem, len(courses))
	for i, c := range courses {
		items[i] = listItem(c)
	}
	return items, nil
}

// GetCourseTree returns a course with its units, skills and lessons, each
// level sorted by order. apperr.ErrNotFound is passed through.
func (s *courseService) GetCourseTree(ctx context.Context, id int64) (*models.CourseTree, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	lang := course.TargetLanguage

	units, err := s.repo.ListUnits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	unitIDs := make([]int64, len(units))
	for i, u := range units {
		unitIDs[i] = u.ID
	}

	skills, err := s.repo.ListSkills(ctx, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	skillIDs := make([]int64, len(skills))
	for i, sk := range skills {
		skillIDs[i] = sk.ID
	}

	lessons, err := s.repo.ListLessons(ctx, skillIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	lessonsBySkill := make(map[int64][]models.LessonNode)
	for _, l := range lessons {
		lessonsBySkill[l.SkillID] = append(lessonsBySkill[l.SkillID], models.LessonNode{Lesson: l, Display: l.Title.Display(lang)})
	}
	skillsByUnit := make(map[int64][]models.SkillNode)
	for _, sk := range skills {
		node := models.SkillNode{Skill: sk, Display: sk.Title.Display(lang), Lessons: lessonsBySkill[sk.ID]}
		if node.Lessons == nil {
			node.Lessons = []models.LessonNode{}
		}
		skillsByUnit[sk.UnitID] = append(skillsByUnit[sk.UnitID], node)
	}

	tree := &models.CourseTree{CourseListItem: listItem(*course), Units: make([]models.UnitNode, len(units))}
	for i, u := range units {
		node := models.UnitNode{Unit: u, Display: u.Title.Display(lang), Skills: skillsByUnit[u.ID]}
		if node.Skills == nil {
			node.Skills = []models.SkillNode{}
		}
		tree.Units[i] = node
	}
	return tree, nil
}

// GetLessonActivities returns the activities of a lesson in order.
// apperr.ErrNotFound is returned for an unknown lesson.
func (s *courseService) GetLessonActivities(ctx context.Context, lessonID int64) ([]models.ActivityResponse, error) {
	if _, err := s.repo.GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	out := make([]models.ActivityResponse, len(activities))
	for i, a := range activities {
		out[i] = models.ActivityResponse{
			ID:           a.ID,
			Order:        a.Order,
			ActivityType: a.ActivityType,
			Content:      a.Content,
			XPReward:     a.XPReward,
		}
	}
	return out, nil
}

func listItem(c models.Course) models.CourseListItem {
	return models.CourseListItem{
		ID:             c.ID,
		Title:          c.Title,
		Display:        c.Title.Display(c.TargetLanguage),
		TargetLanguage: c.TargetLanguage,
		Description:    c.Description,
	}
}
