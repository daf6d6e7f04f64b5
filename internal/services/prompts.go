package services

import (
	"fmt"
	"strings"

	"github.com/lingopath/backend/internal/models"
)

// titleShape tells the model which BilingualText fields to fill for a language.
func titleShape(targetLanguage string) string {
	switch models.KindOf(targetLanguage) {
	case models.LanguageEnglish:
		return `{"vi": "Vietnamese title", "en": "English title"}`
	case models.LanguageChinese:
		return `{"vi": "Vietnamese title", "zh": "Chinese title in hanzi", "pinyin": "pinyin with tone marks"}`
	}
	return `{"vi": "Vietnamese title"}`
}

func architectPrompt(path models.PathConfig, course models.Course) string {
	return fmt.Sprintf(`You are the curriculum architect of a language-learning app for Vietnamese speakers.
Design the units of the course "%s" (%s).
- Target language: %s
- Starting level: %s
- Target level: %s
Create exactly %d units that progress logically from the starting level to the target level.
Return ONLY a single valid JSON object, no commentary, in this exact shape:
{"units": [{"unit_title": %s}]}`,
		course.Title.VI, course.Description.VI,
		path.Language, path.StartLevel, path.TargetLevel,
		path.UnitCount, titleShape(path.Language))
}

func unitPlannerPrompt(in UnitInput) string {
	return fmt.Sprintf(`You are planning unit %d, "%s", of the course "%s".
The course teaches %s to Vietnamese speakers, from %s to %s.
Create exactly %d skills for this unit. Each skill has exactly %d lessons.
Every lesson has a title and a one-sentence learning goal written in Vietnamese.
"skill_icon" is a short icon name such as "book", "chat", "airplane" or "briefcase".
Return ONLY a single valid JSON object, no commentary, in this exact shape:
{"skills": [{"skill_title": %[9]s, "skill_icon": "book", "lessons": [{"lesson_title": %[9]s, "goal": "learning goal"}]}]}`,
		in.Unit.Order, in.Unit.Title.VI, in.Course.Title.VI,
		in.Path.Language, in.Path.StartLevel, in.Path.TargetLevel,
		in.Path.SkillsPerUnit, in.Path.LessonsPerSkill,
		titleShape(in.Path.Language))
}

const activityShapes = `- LESSON_CONTENT: {"html_content": "rich HTML explanation with examples, cultural notes and common mistakes"}
- QUIZ_MCQ: {"question_text": "question", "options": ["A", "B", "C", "D"], "correct_answer": "A", "hint": "short tip in Vietnamese"}
- FILL_IN_BLANK: {"sentence_template": "I ___ tired.", "correct_answer": "am", "hint": "short tip in Vietnamese"}
- SENTENCE_SCRAMBLE: {"scrambled_words": ["tired", "I", "am"], "correct_sentence": "I am tired", "hint": "short tip in Vietnamese"}
- SENTENCE_TRANSLATION: {"source_sentence": "sentence in Vietnamese", "target_sentence": "correct translation", "hint": "short tip in Vietnamese"}`

func contentCreatorPrompt(in LessonInput) string {
	return fmt.Sprintf(`You are writing lesson "%s" of unit "%s" in the course "%s".
The learner is a Vietnamese speaker studying %s.
Lesson goal: %s
Create exactly 5 activities. The first MUST be LESSON_CONTENT. The other 4 must be chosen from QUIZ_MCQ, FILL_IN_BLANK and SENTENCE_SCRAMBLE.
Every activity other than LESSON_CONTENT must include a "hint" field.
Use these content structures:
%s
Return ONLY a single valid JSON array of objects with "activity_type" and "content" keys, no commentary.`,
		in.Lesson.Title.VI, in.UnitTitle.VI, in.CourseTitle.VI,
		in.TargetLanguage, in.Goal, activityShapes)
}

func examinerPrompt(in TestInput) string {
	goals := make([]string, len(in.Goals))
	for i, g := range in.Goals {
		goals[i] = fmt.Sprintf("%d. %s", i+1, g)
	}
	return fmt.Sprintf(`You are writing the final test "%s" of unit "%s" in the course "%s".
The learner is a Vietnamese speaker studying %s.
The test must cover ALL of these lesson goals:
%s
Create exactly 8 activities chosen from QUIZ_MCQ, FILL_IN_BLANK, SENTENCE_SCRAMBLE and SENTENCE_TRANSLATION.
Every activity must include a "hint" field.
Use these content structures:
%s
Return ONLY a single valid JSON array of objects with "activity_type" and "content" keys, no commentary.`,
		in.Lesson.Title.VI, in.UnitTitle.VI, in.CourseTitle.VI,
		in.TargetLanguage, strings.Join(goals, "\n"), activityShapes)
}
