package models

import (
	"errors"
	"fmt"
)

// PathConfig describes one learning path to generate: a course in
// TargetLanguage taking learners from StartLevel to TargetLevel.
type PathConfig struct {
	Language        string        `yaml:"language" json:"language"`
	StartLevel      string        `yaml:"start_level" json:"start_level"`
	TargetLevel     string        `yaml:"target_level" json:"target_level"`
	UnitCount       int           `yaml:"units" json:"units"`
	SkillsPerUnit   int           `yaml:"skills_per_unit" json:"skills_per_unit"`
	LessonsPerSkill int           `yaml:"lessons_per_skill" json:"lessons_per_skill"`
	Title           BilingualText `yaml:"title" json:"title"`
	Description     BilingualText `yaml:"description" json:"description"`
}

// Validate checks that the counts are positive and the language is set.
func (p PathConfig) Validate() error {
	if p.Language == "" {
		return errors.New("language is required")
	}
	if p.UnitCount <= 0 || p.SkillsPerUnit <= 0 || p.LessonsPerSkill <= 0 {
		return fmt.Errorf("path %s: units, skills_per_unit and lessons_per_skill must be positive", p.Language)
	}
	return nil
}

// CourseTitle returns the configured title or one derived from the path.
func (p PathConfig) CourseTitle() BilingualText {
	if p.Title.VI != "" {
		return p.Title
	}
	t := BilingualText{VI: fmt.Sprintf("%s %s → %s", p.Language, p.StartLevel, p.TargetLevel)}
	switch KindOf(p.Language) {
	case LanguageEnglish:
		t.EN = fmt.Sprintf("English %s to %s", p.StartLevel, p.TargetLevel)
	case LanguageChinese:
		t.ZH = fmt.Sprintf("中文 %s 到 %s", p.StartLevel, p.TargetLevel)
		t.Pinyin = fmt.Sprintf("Zhōngwén %s dào %s", p.StartLevel, p.TargetLevel)
	}
	return t
}

// CourseDescription returns the configured description or a derived one.
func (p PathConfig) CourseDescription() BilingualText {
	if p.Description.VI != "" {
		return p.Description
	}
	return BilingualText{VI: fmt.Sprintf("Lộ trình %s từ trình độ %s lên %s.", p.Language, p.StartLevel, p.TargetLevel)}
}

// UnitTestTitle is the deterministic title of the test lesson closing unit n.
func UnitTestTitle(targetLanguage string, n int) BilingualText {
	t := BilingualText{VI: fmt.Sprintf("Bài kiểm tra Unit %d", n)}
	switch KindOf(targetLanguage) {
	case LanguageEnglish:
		t.EN = fmt.Sprintf("Unit %d Test", n)
	case LanguageChinese:
		t.ZH = fmt.Sprintf("第%d单元测试", n)
		t.Pinyin = fmt.Sprintf("Dì %d dānyuán cèshì", n)
	}
	return t
}
