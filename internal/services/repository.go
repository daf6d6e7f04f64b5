package services

import (
	"context"
	"encoding/json"

	"github.com/lingopath/backend/internal/models"
)

// StructuredGenerator is the interface that wraps the model gateway call
type StructuredGenerator interface {
	// Method GenerateStructured sends a prompt to the model and returns the JSON value found in its reply.
	//
	// A reply without parseable JSON is returned as *apperr.MalformedModelOutputError,
	// a network or HTTP failure as *apperr.TransportError. The call is never retried here.
	GenerateStructured(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ContentWriter is the interface that wraps methods for writing the course tree
type ContentWriter interface {
	// Method InsertCourse inserts a course row and returns it with the ID assigned by the store.
	//
	// Failures are returned as *apperr.WriteError and are never retried.
	InsertCourse(ctx context.Context, course models.Course) (models.Course, error)
	// Method InsertUnits inserts units as one batch and returns them, in the same order, with their IDs.
	//
	// The "order" of every row is taken from the caller. Please reference InsertCourse for error values.
	InsertUnits(ctx context.Context, units []models.Unit) ([]models.Unit, error)
	// Method InsertSkills inserts skills as one batch and returns them with their IDs.
	//
	// Please reference InsertUnits method for more information about ordering and error values.
	InsertSkills(ctx context.Context, skills []models.Skill) ([]models.Skill, error)
	// Method InsertLessons inserts lessons as one batch and returns them with their IDs.
	//
	// Please reference InsertUnits method for more information about ordering and error values.
	InsertLessons(ctx context.Context, lessons []models.Lesson) ([]models.Lesson, error)
	// Method InsertActivities inserts activities as one batch.
	//
	// Content of every activity is checked against its type first; a mismatch rejects the batch with a *apperr.WriteError.
	InsertActivities(ctx context.Context, activities []models.Activity) error
	// Method DeleteAll removes every row of a content table.
	//
	// Tables must be emptied children-first, please reference models.ResetOrder.
	DeleteAll(ctx context.Context, table string) error
}

// ContentReader is the interface that wraps methods for reading the course tree
type ContentReader interface {
	// Method ListCourses retrieves all courses, filtered by target language when "language" is not empty.
	ListCourses(ctx context.Context, language string) ([]models.Course, error)
	// Method GetCourse retrieves a course by its ID.
	//
	// apperr.ErrNotFound is returned when the course does not exist.
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	// Method GetLesson retrieves a lesson by its ID.
	//
	// apperr.ErrNotFound is returned when the lesson does not exist.
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	// Method ListUnits retrieves the units of a course sorted by order.
	ListUnits(ctx context.Context, courseID int64) ([]models.Unit, error)
	// Method ListSkills retrieves the skills of the given units sorted by unit and order.
	ListSkills(ctx context.Context, unitIDs []int64) ([]models.Skill, error)
	// Method ListLessons retrieves the lessons of the given skills sorted by skill and order.
	ListLessons(ctx context.Context, skillIDs []int64) ([]models.Lesson, error)
	// Method ListActivities retrieves the activities of a lesson sorted by order.
	ListActivities(ctx context.Context, lessonID int64) ([]models.Activity, error)
}
