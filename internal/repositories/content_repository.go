package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/database"
	"github.com/lingopath/backend/internal/models"
	"go.uber.org/zap"
)

type contentRepository struct {
	db     *database.DB
	logger *zap.Logger
	// order is the dialect-quoted "order" column
	order string
}

// NewContentRepository creates a SQL-backed course content repository
func NewContentRepository(db *database.DB, logger *zap.Logger) *contentRepository {
	return &contentRepository{
		db:     db,
		logger: logger,
		order:  db.Dialect.QuoteIdent("order"),
	}
}

// inTx runs fn in one transaction; any failure is reported as a WriteError for table.
func (r *contentRepository) inTx(ctx context.Context, table string, fn func(tx *database.Tx) error) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, fmt.Errorf("failed to begin transaction: %w", err))
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		r.logger.Error("batch insert failed", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// InsertCourse inserts a course row and returns it with its new ID.
func (r *contentRepository) InsertCourse(ctx context.Context, course models.Course) (models.Course, error) {
	query := `INSERT INTO courses (title, target_language, description) VALUES (?, ?, ?)`

	err := r.inTx(ctx, models.TableCourses, func(tx *database.Tx) error {
		id, err := tx.ExecReturningID(ctx, query, course.Title, course.TargetLanguage, course.Description)
		if err != nil {
			return fmt.Errorf("failed to insert course: %w", err)
		}
		course.ID = id
		return nil
	})
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// InsertUnits inserts units as one batch and returns them with their IDs.
func (r *contentRepository) InsertUnits(ctx context.Context, units []models.Unit) ([]models.Unit, error) {
	out := slices.Clone(units)
	query := fmt.Sprintf(`INSERT INTO units (course_id, title, %s) VALUES (?, ?, ?)`, r.order)

	err := r.inTx(ctx, models.TableUnits, func(tx *database.Tx) error {
		for i := range out {
			id, err := tx.ExecReturningID(ctx, query, out[i].CourseID, out[i].Title, out[i].Order)
			if err != nil {
				return fmt.Errorf("failed to insert unit %d: %w", out[i].Order, err)
			}
			out[i].ID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertSkills inserts skills as one batch and returns them with their IDs.
func (r *contentRepository) InsertSkills(ctx context.Context, skills []models.Skill) ([]models.Skill, error) {
	out := slices.Clone(skills)
	query := fmt.Sprintf(`INSERT INTO skills (unit_id, title, icon_name, %s) VALUES (?, ?, ?, ?)`, r.order)

	err := r.inTx(ctx, models.TableSkills, func(tx *database.Tx) error {
		for i := range out {
			id, err := tx.ExecReturningID(ctx, query, out[i].UnitID, out[i].Title, out[i].IconName, out[i].Order)
			if err != nil {
				return fmt.Errorf("failed to insert skill %d: %w", out[i].Order, err)
			}
			out[i].ID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertLessons inserts lessons as one batch and returns them with their IDs.
func (r *contentRepository) InsertLessons(ctx context.Context, lessons []models.Lesson) ([]models.Lesson, error) {
	out := slices.Clone(lessons)
	query := fmt.Sprintf(`INSERT INTO lessons (skill_id, title, %s, is_test) VALUES (?, ?, ?, ?)`, r.order)

	err := r.inTx(ctx, models.TableLessons, func(tx *database.Tx) error {
		for i := range out {
			id, err := tx.ExecReturningID(ctx, query, out[i].SkillID, out[i].Title, out[i].Order, out[i].IsTest)
			if err != nil {
				return fmt.Errorf("failed to insert lesson %d: %w", out[i].Order, err)
			}
			out[i].ID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertActivities validates every activity's content against its type and
// inserts the batch. A shape mismatch rejects the whole batch.
func (r *contentRepository) InsertActivities(ctx context.Context, activities []models.Activity) error {
	if err := validateActivities(activities); err != nil {
		r.logger.Warn("rejected activity batch", zap.Error(err))
		return err
	}

	query := fmt.Sprintf(`INSERT INTO activities (lesson_id, %s, activity_type, content, xp_reward) VALUES (?, ?, ?, ?, ?)`, r.order)

	return r.inTx(ctx, models.TableActivities, func(tx *database.Tx) error {
		for _, a := range activities {
			if _, err := tx.ExecContext(ctx, query, a.LessonID, a.Order, string(a.ActivityType), string(a.Content), a.XPReward); err != nil {
				return fmt.Errorf("failed to insert activity %d: %w", a.Order, err)
			}
		}
		return nil
	})
}

// DeleteAll removes every row from table.
func (r *contentRepository) DeleteAll(ctx context.Context, table string) error {
	if !slices.Contains(models.ResetOrder, table) {
		return apperr.NewWriteError(table, errors.New("unknown table"))
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		r.logger.Error("failed to delete rows", zap.String("table", table), zap.Error(err))
		return apperr.NewWriteError(table, fmt.Errorf("failed to delete rows: %w", err))
	}
	return nil
}

// ListCourses returns all courses, optionally filtered by target language.
func (r *contentRepository) ListCourses(ctx context.Context, language string) ([]models.Course, error) {
	query := `SELECT id, title, target_language, description FROM courses`
	args := []any{}
	if language != "" {
		query += ` WHERE target_language = ?`
		args = append(args, language)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query courses", zap.Error(err))
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.TargetLanguage, &c.Description); err != nil {
			r.logger.Error("failed to scan course", zap.Error(err))
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// GetCourse returns the course with id or apperr.ErrNotFound.
func (r *contentRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT id, title, target_language, description FROM courses WHERE id = ?`

	var c models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.TargetLanguage, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to query course", zap.Int64("course_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return &c, nil
}

// GetLesson returns the lesson with id or apperr.ErrNotFound.
func (r *contentRepository) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT id, skill_id, title, %s, is_test FROM lessons WHERE id = ?`, r.order)

	var l models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.SkillID, &l.Title, &l.Order, &l.IsTest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to query lesson", zap.Int64("lesson_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}
	return &l, nil
}

// ListUnits returns the units of a course sorted by order.
func (r *contentRepository) ListUnits(ctx context.Context, courseID int64) ([]models.Unit, error) {
	query := fmt.Sprintf(`SELECT id, course_id, title, %[1]s FROM units WHERE course_id = ? ORDER BY %[1]s`, r.order)

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		r.logger.Error("failed to query units", zap.Error(err))
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.CourseID, &u.Title, &u.Order); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return units, nil
}

// ListSkills returns the skills of the given units sorted by unit and order.
func (r *contentRepository) ListSkills(ctx context.Context, unitIDs []int64) ([]models.Skill, error) {
	if len(unitIDs) == 0 {
		return []models.Skill{}, nil
	}
	query := fmt.Sprintf(`SELECT id, unit_id, title, icon_name, %[1]s FROM skills WHERE unit_id IN (%[2]s) ORDER BY unit_id, %[1]s`,
		r.order, placeholders(len(unitIDs)))

	rows, err := r.db.QueryContext(ctx, query, int64Args(unitIDs)...)
	if err != nil {
		r.logger.Error("failed to query skills", zap.Error(err))
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.UnitID, &s.Title, &s.IconName, &s.Order); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return skills, nil
}

// ListLessons returns the lessons of the given skills sorted by skill and order.
func (r *contentRepository) ListLessons(ctx context.Context, skillIDs []int64) ([]models.Lesson, error) {
	if len(skillIDs) == 0 {
		return []models.Lesson{}, nil
	}
	query := fmt.Sprintf(`SELECT id, skill_id, title, %[1]s, is_test FROM lessons WHERE skill_id IN (%[2]s) ORDER BY skill_id, %[1]s`,
		r.order, placeholders(len(skillIDs)))

	rows, err := r.db.QueryContext(ctx, query, int64Args(skillIDs)...)
	if err != nil {
		r.logger.Error("failed to query lessons", zap.Error(err))
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.SkillID, &l.Title, &l.Order, &l.IsTest); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return lessons, nil
}

// ListActivities returns the activities of a lesson sorted by order.
func (r *contentRepository) ListActivities(ctx context.Context, lessonID int64) ([]models.Activity, error) {
	query := fmt.Sprintf(`SELECT id, lesson_id, %[1]s, activity_type, content, xp_reward FROM activities WHERE lesson_id = ? ORDER BY %[1]s`, r.order)

	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		r.logger.Error("failed to query activities", zap.Error(err))
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var activityType string
		var content []byte
		if err := rows.Scan(&a.ID, &a.LessonID, &a.Order, &activityType, &content, &a.XPReward); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.ActivityType = models.ActivityType(activityType)
		a.Content = content
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return activities, nil
}

// validateActivities checks type and content shape of every activity in a batch.
func validateActivities(activities []models.Activity) error {
	for _, a := range activities {
		if !a.ActivityType.Valid() {
			return apperr.NewWriteError(models.TableActivities, fmt.Errorf("activity %d: unknown type %q", a.Order, a.ActivityType))
		}
		if err := models.ValidateContent(a.ActivityType, a.Content); err != nil {
			return apperr.NewWriteError(models.TableActivities, fmt.Errorf("activity %d (%s): %w", a.Order, a.ActivityType, err))
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
