package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lingopath/backend/internal/models"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for reading generated courses.
type CourseService interface {
	// Method ListCourses retrieve all generated courses with their display titles.
	//
	// "language" filters courses by target language label (for example "Tiếng Anh"). An empty value returns every course.
	ListCourses(ctx context.Context, language string) ([]models.CourseListItem, error)
	// Method GetCourseTree retrieve a course with its units, skills and lessons, each level sorted by order.
	//
	// If the course does not exist, apperr.ErrNotFound is returned together with "nil" value.
	GetCourseTree(ctx context.Context, id int64) (*models.CourseTree, error)
	// Method GetLessonActivities retrieve the activities of a lesson sorted by order.
	//
	// If the lesson does not exist, apperr.ErrNotFound is returned together with "nil" value.
	GetLessonActivities(ctx context.Context, lessonID int64) ([]models.ActivityResponse, error)
}

// CourseHandler handles HTTP requests for generated courses
type CourseHandler struct {
	BaseHandler
	service CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/{id}", h.GetCourse)
	})
	r.Get("/lessons/{id}/activities", h.GetLessonActivities)
}

// ListCourses handles GET /api/v1/courses
// @Summary List courses
// @Description Get all generated courses, optionally filtered by target language
// @Tags courses
// @Produce json
// @Param language query string false "Target language label, e.g. Tiếng Anh"
// @Success 200 {array} models.CourseListItem
// @Failure 500 {object} map[string]string
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		h.respondServiceError(w, r, err, "courses not found", "failed to list courses")
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/courses/{id}
// @Summary Get course tree
// @Description Get a course with its units, skills and lessons
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseTree
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	tree, err := h.service.GetCourseTree(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "course not found", "failed to get course")
		return
	}

	h.respondJSON(w, http.StatusOK, tree)
}

// GetLessonActivities handles GET /api/v1/lessons/{id}/activities
// @Summary Get lesson activities
// @Description Get the activities of a lesson in order
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {array} models.ActivityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /lessons/{id}/activities [get]
func (h *CourseHandler) GetLessonActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	activities, err := h.service.GetLessonActivities(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "lesson not found", "failed to get activities")
		return
	}

	h.respondJSON(w, http.StatusOK, activities)
}
