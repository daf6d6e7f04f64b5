package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/lingopath/backend/internal/config"
	"github.com/lingopath/backend/internal/database"
	"github.com/lingopath/backend/internal/models"
	"go.uber.org/zap"
)

const restTimeout = 30 * time.Second

// Store is the content store surface implemented by both backends.
type Store interface {
	InsertCourse(ctx context.Context, course models.Course) (models.Course, error)
	InsertUnits(ctx context.Context, units []models.Unit) ([]models.Unit, error)
	InsertSkills(ctx context.Context, skills []models.Skill) ([]models.Skill, error)
	InsertLessons(ctx context.Context, lessons []models.Lesson) ([]models.Lesson, error)
	InsertActivities(ctx context.Context, activities []models.Activity) error
	DeleteAll(ctx context.Context, table string) error

	ListCourses(ctx context.Context, language string) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListUnits(ctx context.Context, courseID int64) ([]models.Unit, error)
	ListSkills(ctx context.Context, unitIDs []int64) ([]models.Skill, error)
	ListLessons(ctx context.Context, skillIDs []int64) ([]models.Lesson, error)
	ListActivities(ctx context.Context, lessonID int64) ([]models.Activity, error)
}

// Open connects the store selected by cfg.Driver. For SQL drivers the
// embedded migrations run when cfg.RunMigrations is set. The returned close
// function releases the connection.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, func() error, error) {
	if cfg.Driver == config.DriverREST {
		logger.Info("using PostgREST store", zap.String("url", cfg.URL))
		return NewRESTRepository(cfg.URL, cfg.ServiceKey, restTimeout, logger), func() error { return nil }, nil
	}

	db, err := database.Open(ctx, cfg.Driver, cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s store: %w", cfg.Driver, err)
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("migrations applied", zap.String("driver", cfg.Driver))
	}

	logger.Info("using SQL store", zap.String("driver", cfg.Driver))
	return NewContentRepository(db, logger), db.Close, nil
}
