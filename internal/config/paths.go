package config

import (
	"fmt"
	"os"

	"github.com/lingopath/backend/internal/apperr"
	"github.com/lingopath/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are the learning paths generated when no override file is set.
func DefaultPaths() []models.PathConfig {
	return []models.PathConfig{
		{
			Language:        "Tiếng Anh",
			StartLevel:      "B2",
			TargetLevel:     "C2",
			UnitCount:       4,
			SkillsPerUnit:   3,
			LessonsPerSkill: 3,
			Title: models.BilingualText{
				VI: "Tiếng Anh C2 Chuyên sâu: Làm chủ Ngôn ngữ",
				EN: "Advanced English C2: Mastering the Language",
			},
			Description: models.BilingualText{
				VI: "Khóa học đỉnh cao dành cho người muốn đạt đến trình độ thông thạo như người bản xứ.",
				EN: "A top-tier course for learners aiming at native-like fluency.",
			},
		},
		{
			Language:        "Tiếng Trung",
			StartLevel:      "HSK 3",
			TargetLevel:     "HSK 4",
			UnitCount:       4,
			SkillsPerUnit:   3,
			LessonsPerSkill: 3,
			Title: models.BilingualText{
				VI:     "Chinh phục HSK 4 Toàn diện",
				ZH:     "全面攻克HSK四级",
				Pinyin: "Quánmiàn gōngkè HSK sì jí",
			},
			Description: models.BilingualText{
				VI: "Nắm vững 1200 từ vựng và các điểm ngữ pháp cốt lõi của HSK 4.",
			},
		},
	}
}

type pathsFile struct {
	Paths []models.PathConfig `yaml:"paths"`
}

// LoadPaths returns the paths listed in file, or DefaultPaths when file is empty.
func LoadPaths(file string) ([]models.PathConfig, error) {
	if file == "" {
		return DefaultPaths(), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &apperr.ConfigurationError{Key: "COURSE_PATHS_FILE", Err: err}
	}

	var parsed pathsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &apperr.ConfigurationError{Key: "COURSE_PATHS_FILE", Err: fmt.Errorf("failed to parse %s: %w", file, err)}
	}
	if len(parsed.Paths) == 0 {
		return nil, &apperr.ConfigurationError{Key: "COURSE_PATHS_FILE", Err: fmt.Errorf("%s lists no paths", file)}
	}
	for i, p := range parsed.Paths {
		if err := p.Validate(); err != nil {
			return nil, &apperr.ConfigurationError{Key: "COURSE_PATHS_FILE", Err: fmt.Errorf("path %d: %w", i+1, err)}
		}
	}
	return parsed.Paths, nil
}
