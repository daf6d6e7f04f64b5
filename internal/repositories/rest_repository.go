package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/models"
	"go.uber.org/zap"
)

// restRepository stores course content through a PostgREST endpoint
// (the Supabase REST API).
type restRepository struct {
	client *resty.Client
	logger *zap.Logger
}

// postgrestError is the error body PostgREST returns on failure
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *postgrestError) describe(status int, raw string) string {
	if e.Message == "" {
		return fmt.Sprintf("status %d: %s", status, raw)
	}
	if e.Details != "" {
		return fmt.Sprintf("status %d: %s (%s): %s", status, e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("status %d: %s (%s)", status, e.Message, e.Code)
}

type courseInsert struct {
	Title          models.BilingualText `json:"title"`
	TargetLanguage string               `json:"target_language"`
	Description    models.BilingualText `json:"description"`
}

type unitInsert struct {
	CourseID int64                `json:"course_id"`
	Title    models.BilingualText `json:"title"`
	Order    int                  `json:"order"`
}

type skillInsert struct {
	UnitID   int64                `json:"unit_id"`
	Title    models.BilingualText `json:"title"`
	IconName string               `json:"icon_name"`
	Order    int                  `json:"order"`
}

type lessonInsert struct {
	SkillID int64                `json:"skill_id"`
	Title   models.BilingualText `json:"title"`
	Order   int                  `json:"order"`
	IsTest  bool                 `json:"is_test"`
}

type activityInsert struct {
	LessonID     int64               `json:"lesson_id"`
	Order        int                 `json:"order"`
	ActivityType models.ActivityType `json:"activity_type"`
	Content      json.RawMessage     `json:"content"`
	XPReward     int                 `json:"xp_reward"`
}

// NewRESTRepository creates a repository talking to the PostgREST API under
// baseURL, authenticated with the service key.
func NewRESTRepository(baseURL, serviceKey string, timeout time.Duration, logger *zap.Logger) *restRepository {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", serviceKey).
		SetAuthToken(serviceKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &restRepository{
		client: client,
		logger: logger,
	}
}

// insert posts rows to table and decodes the created rows into out.
func (r *restRepository) insert(ctx context.Context, table string, rows any, out any) error {
	var apiErr postgrestError
	req := r.client.R().
		SetContext(ctx).
		SetBody(rows).
		SetError(&apiErr)
	if out != nil {
		req.SetHeader("Prefer", "return=representation").SetResult(out)
	} else {
		req.SetHeader("Prefer", "return=minimal")
	}

	resp, err := req.Post("/" + table)
	if err != nil {
		r.logger.Error("insert request failed", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, err)
	}
	if resp.IsError() {
		msg := apiErr.describe(resp.StatusCode(), resp.String())
		r.logger.Error("store rejected insert", zap.String("table", table), zap.String("error", msg))
		return apperr.NewWriteError(table, errors.New(msg))
	}
	return nil
}

// get runs a select against table with the given query parameters.
func (r *restRepository) get(ctx context.Context, table string, params map[string]string, out any) error {
	var apiErr postgrestError
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(&apiErr).
		Get("/" + table)
	if err != nil {
		r.logger.Error("select request failed", zap.String("table", table), zap.Error(err))
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if resp.IsError() {
		msg := apiErr.describe(resp.StatusCode(), resp.String())
		r.logger.Error("store rejected select", zap.String("table", table), zap.String("error", msg))
		return fmt.Errorf("failed to query %s: %s", table, msg)
	}
	return nil
}

func checkInserted(table string, want, got int) error {
	if want != got {
		return apperr.NewWriteError(table, fmt.Errorf("expected %d rows back, got %d", want, got))
	}
	return nil
}

// InsertCourse inserts a course row and returns it with its new ID.
func (r *restRepository) InsertCourse(ctx context.Context, course models.Course) (models.Course, error) {
	var created []models.Course
	row := []courseInsert{{Title: course.Title, TargetLanguage: course.TargetLanguage, Description: course.Description}}
	if err := r.insert(ctx, models.TableCourses, row, &created); err != nil {
		return models.Course{}, err
	}
	if err := checkInserted(models.TableCourses, 1, len(created)); err != nil {
		return models.Course{}, err
	}
	course.ID = created[0].ID
	return course, nil
}

// InsertUnits inserts units as one batch and returns them with their IDs.
func (r *restRepository) InsertUnits(ctx context.Context, units []models.Unit) ([]models.Unit, error) {
	rows := make([]unitInsert, len(units))
	for i, u := range units {
		rows[i] = unitInsert{CourseID: u.CourseID, Title: u.Title, Order: u.Order}
	}

	var created []models.Unit
	if err := r.insert(ctx, models.TableUnits, rows, &created); err != nil {
		return nil, err
	}
	if err := checkInserted(models.TableUnits, len(units), len(created)); err != nil {
		return nil, err
	}
	return created, nil
}

// InsertSkills inserts skills as one batch and returns them with their IDs.
func (r *restRepository) InsertSkills(ctx context.Context, skills []models.Skill) ([]models.Skill, error) {
	rows := make([]skillInsert, len(skills))
	for i, s := range skills {
		rows[i] = skillInsert{UnitID: s.UnitID, Title: s.Title, IconName: s.IconName, Order: s.Order}
	}

	var created []models.Skill
	if err := r.insert(ctx, models.TableSkills, rows, &created); err != nil {
		return nil, err
	}
	if err := checkInserted(models.TableSkills, len(skills), len(created)); err != nil {
		return nil, err
	}
	return created, nil
}

// InsertLessons inserts lessons as one batch and returns them with their IDs.
func (r *restRepository) InsertLessons(ctx context.Context, lessons []models.Lesson) ([]models.Lesson, error) {
	rows := make([]lessonInsert, len(lessons))
	for i, l := range lessons {
		rows[i] = lessonInsert{SkillID: l.SkillID, Title: l.Title, Order: l.Order, IsTest: l.IsTest}
	}

	var created []models.Lesson
	if err := r.insert(ctx, models.TableLessons, rows, &created); err != nil {
		return nil, err
	}
	if err := checkInserted(models.TableLessons, len(lessons), len(created)); err != nil {
		return nil, err
	}
	return created, nil
}

// InsertActivities validates and inserts activities as one batch.
func (r *restRepository) InsertActivities(ctx context.Context, activities []models.Activity) error {
	if err := validateActivities(activities); err != nil {
		r.logger.Warn("rejected activity batch", zap.Error(err))
		return err
	}

	rows := make([]activityInsert, len(activities))
	for i, a := range activities {
		rows[i] = activityInsert{
			LessonID:     a.LessonID,
			Order:        a.Order,
			ActivityType: a.ActivityType,
			Content:      a.Content,
			XPReward:     a.XPReward,
		}
	}
	return r.insert(ctx, models.TableActivities, rows, nil)
}

// DeleteAll removes every row from table. PostgREST refuses unfiltered
// deletes, so an always-true filter on id is sent.
func (r *restRepository) DeleteAll(ctx context.Context, table string) error {
	if !slices.Contains(models.ResetOrder, table) {
		return apperr.NewWriteError(table, errors.New("unknown table"))
	}

	var apiErr postgrestError
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("id", "neq.0").
		SetError(&apiErr).
		Delete("/" + table)
	if err != nil {
		r.logger.Error("delete request failed", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, err)
	}
	if resp.IsError() {
		msg := apiErr.describe(resp.StatusCode(), resp.String())
		r.logger.Error("store rejected delete", zap.String("table", table), zap.String("error", msg))
		return apperr.NewWriteError(table, errors.New(msg))
	}
	return nil
}

// ListCourses returns all courses, optionally filtered by target language.
func (r *restRepository) ListCourses(ctx context.Context, language string) ([]models.Course, error) {
	params := map[string]string{"select": "id,title,target_language,description", "order": "id.asc"}
	if language != "" {
		params["target_language"] = "eq." + language
	}

	courses := []models.Course{}
	if err := r.get(ctx, models.TableCourses, params, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns the course with id or apperr.ErrNotFound.
func (r *restRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	params := map[string]string{"select": "id,title,target_language,description", "id": "eq." + strconv.FormatInt(id, 10)}

	var courses []models.Course
	if err := r.get(ctx, models.TableCourses, params, &courses); err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &courses[0], nil
}

// GetLesson returns the lesson with id or apperr.ErrNotFound.
func (r *restRepository) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	params := map[string]string{"select": "id,skill_id,title,order,is_test", "id": "eq." + strconv.FormatInt(id, 10)}

	var lessons []models.Lesson
	if err := r.get(ctx, models.TableLessons, params, &lessons); err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &lessons[0], nil
}

// ListUnits returns the units of a course sorted by order.
func (r *restRepository) ListUnits(ctx context.Context, courseID int64) ([]models.Unit, error) {
	params := map[string]string{
		"select":    "id,course_id,title,order",
		"course_id": "eq." + strconv.FormatInt(courseID, 10),
		"order":     "order.asc",
	}

	units := []models.Unit{}
	if err := r.get(ctx, models.TableUnits, params, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// ListSkills returns the skills of the given units sorted by unit and order.
func (r *restRepository) ListSkills(ctx context.Context, unitIDs []int64) ([]models.Skill, error) {
	skills := []models.Skill{}
	if len(unitIDs) == 0 {
		return skills, nil
	}
	params := map[string]string{
		"select":  "id,unit_id,title,icon_name,order",
		"unit_id": inFilter(unitIDs),
		"order":   "unit_id.asc,order.asc",
	}

	if err := r.get(ctx, models.TableSkills, params, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// ListLessons returns the lessons of the given skills sorted by skill and order.
func (r *restRepository) ListLessons(ctx context.Context, skillIDs []int64) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	if len(skillIDs) == 0 {
		return lessons, nil
	}
	params := map[string]string{
		"select":   "id,skill_id,title,order,is_test",
		"skill_id": inFilter(skillIDs),
		"order":    "skill_id.asc,order.asc",
	}

	if err := r.get(ctx, models.TableLessons, params, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// ListActivities returns the activities of a lesson sorted by order.
func (r *restRepository) ListActivities(ctx context.Context, lessonID int64) ([]models.Activity, error) {
	params := map[string]string{
		"select":    "id,lesson_id,order,activity_type,content,xp_reward",
		"lesson_id": "eq." + strconv.FormatInt(lessonID, 10),
		"order":     "order.asc",
	}

	activities := []models.Activity{}
	if err := r.get(ctx, models.TableActivities, params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func inFilter(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}
