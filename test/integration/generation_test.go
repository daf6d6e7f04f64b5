package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lingopath/backend/internal/config"
	"github.com/lingopath/backend/internal/database"
	"github.com/lingopath/backend/internal/handlers"
	"github.com/lingopath/backend/internal/llm"
	"github.com/lingopath/backend/internal/models"
	"github.com/lingopath/backend/internal/repositories"
	"github.com/lingopath/backend/internal/retry"
	"github.com/lingopath/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *database.DB
	testLogger *zap.Logger
)

// cannedModel answers every planner with a fixed, valid reply
type cannedModel struct{}

func (cannedModel) Model() string { return "canned" }

func (cannedModel) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "curriculum architect"):
		return `{"units":[{"unit_title":{"vi":"Chào hỏi","en":"Greetings"}},{"unit_title":{"vi":"Gia đình","en":"Family"}}]}`, nil
	case strings.Contains(prompt, "You are planning unit"):
		return "```json\n" + `{"skills":[
			{"skill_title":{"vi":"Nói","en":"Speaking"},"skill_icon":"chat","lessons":[
				{"lesson_title":{"vi":"Xin chào","en":"Hello"},"goal":"Chào hỏi cơ bản"},
				{"lesson_title":{"vi":"Tạm biệt","en":"Goodbye"},"goal":"Chào tạm biệt"}]}]}` + "\n```", nil
	case strings.Contains(prompt, "final test"):
		items := make([]string, 8)
		for i := range items {
			items[i] = fmt.Sprintf(`{"activity_type":"SENTENCE_TRANSLATION","content":{"source_sentence":"Câu %d","target_sentence":"Sentence %d","hint":"gợi ý"}}`, i+1, i+1)
		}
		return "[" + strings.Join(items, ",") + "]", nil
	}
	return `[
		{"activity_type":"LESSON_CONTENT","content":{"html_content":"<p>Hello</p>"}},
		{"activity_type":"QUIZ_MCQ","content":{"question_text":"Hello = ?","options":["Xin chào","Tạm biệt"],"correct_answer":"Xin chào","hint":"lời chào"}},
		{"activity_type":"FILL_IN_BLANK","content":{"sentence_template":"___, how are you?","correct_answer":"Hello","hint":"lời chào"}},
		{"activity_type":"SENTENCE_SCRAMBLE","content":{"scrambled_words":["you","are","how"],"correct_sentence":"how are you","hint":"câu hỏi"}},
		{"activity_type":"FILL_IN_BLANK","content":{"sentence_parts":["Nice to ", " you."],"correct_answer":"meet","hint":"gặp"}}
	]`, nil
}

// TestMain opens the test store and applies the migrations
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	testDB, err = database.Open(ctx, cfg.Store.Driver, cfg.Store.URL)
	cancel()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	if err := database.RunMigrations(testDB); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func runPipeline(t *testing.T) *services.RunReport {
	t.Helper()

	repo := repositories.NewContentRepository(testDB, testLogger)
	ctrl := retry.NewController(retry.None{}, retry.Config{InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}, testLogger)
	pipeline := services.NewGenerationPipeline(llm.NewGateway(cannedModel{}, testLogger), ctrl, repo, testLogger)

	report, err := pipeline.Run(context.Background(), []models.PathConfig{{
		Language:        "Tiếng Anh",
		StartLevel:      "A1",
		TargetLevel:     "A2",
		UnitCount:       2,
		SkillsPerUnit:   1,
		LessonsPerSkill: 2,
	}})
	require.NoError(t, err)
	return report
}

func setupTestRouter() chi.Router {
	repo := repositories.NewContentRepository(testDB, testLogger)
	handler := handlers.NewCourseHandler(services.NewCourseService(repo, testLogger), testLogger)

	r := chi.NewRouter()
	r.Route("/api/v1", handler.RegisterRoutes)
	return r
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, testDB.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func getJSON(t *testing.T, router http.Handler, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code == http.StatusOK && out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestIntegration_GenerateAndRead(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	report := runPipeline(t)

	require.Len(t, report.Courses, 1)
	assert.Equal(t, services.StatusSucceeded, report.Courses[0].Status)

	assert.Equal(t, 1, countRows(t, models.TableCourses))
	assert.Equal(t, 2, countRows(t, models.TableUnits))
	assert.Equal(t, 2, countRows(t, models.TableSkills))
	assert.Equal(t, 6, countRows(t, models.TableLessons))
	assert.Equal(t, 2*(2*5+8), countRows(t, models.TableActivities))

	router := setupTestRouter()

	var courses []models.CourseListItem
	require.Equal(t, http.StatusOK, getJSON(t, router, "/api/v1/courses", &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "English A1 to A2", courses[0].Display.Main)

	var tree models.CourseTree
	require.Equal(t, http.StatusOK, getJSON(t, router, fmt.Sprintf("/api/v1/courses/%d", courses[0].ID), &tree))
	require.Len(t, tree.Units, 2)
	assert.Equal(t, "Greetings", tree.Units[0].Display.Main)
	assert.Equal(t, 2, tree.Units[1].Order)

	lessons := tree.Units[0].Skills[0].Lessons
	require.Len(t, lessons, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{lessons[0].Order, lessons[1].Order, lessons[2].Order})
	assert.True(t, lessons[2].IsTest)
	assert.Equal(t, "Unit 1 Test", lessons[2].Display.Main)

	var activities []models.ActivityResponse
	require.Equal(t, http.StatusOK, getJSON(t, router, fmt.Sprintf("/api/v1/lessons/%d/activities", lessons[0].ID), &activities))
	require.Len(t, activities, 5)
	assert.Equal(t, models.ActivityLessonContent, activities[0].ActivityType)
	assert.Equal(t, models.XPRewardLesson, activities[0].XPReward)

	require.Equal(t, http.StatusOK, getJSON(t, router, fmt.Sprintf("/api/v1/lessons/%d/activities", lessons[2].ID), &activities))
	require.Len(t, activities, 8)
	assert.Equal(t, models.XPRewardTest, activities[7].XPReward)

	assert.Equal(t, http.StatusNotFound, getJSON(t, router, "/api/v1/courses/999999", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, router, "/api/v1/lessons/999999/activities", nil))
}

func TestIntegration_RerunReplacesContent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	runPipeline(t)
	first := []int{
		countRows(t, models.TableCourses),
		countRows(t, models.TableLessons),
		countRows(t, models.TableActivities),
	}

	runPipeline(t)
	second := []int{
		countRows(t, models.TableCourses),
		countRows(t, models.TableLessons),
		countRows(t, models.TableActivities),
	}

	assert.Equal(t, first, second)
}
