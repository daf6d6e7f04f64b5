package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// blankPattern marks the gap in a fill-in-the-blank template ("I ___ tired.").
var blankPattern = regexp.MustCompile(`_{3,}`)

// LessonContent is the LESSON_CONTENT payload
type LessonContent struct {
	HTMLContent string `json:"html_content" validate:"required"`
}

// McqOption is a multiple-choice option. The model emits either a bare
// string or an object with an is_correct flag; both decode into McqOption.
type McqOption struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// UnmarshalJSON accepts "text" and {"text": "...", "is_correct": true}.
func (o *McqOption) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = McqOption{Text: s}
		return nil
	}
	type plain McqOption
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("option must be a string or an object: %w", err)
	}
	*o = McqOption(p)
	return nil
}

// QuizMcqContent is the QUIZ_MCQ payload
type QuizMcqContent struct {
	Title         string      `json:"title,omitempty"`
	Question      string      `json:"question,omitempty"`
	QuestionText  string      `json:"question_text,omitempty"`
	Options       []McqOption `json:"options" validate:"min=2,dive"`
	CorrectAnswer string      `json:"correct_answer,omitempty"`
	Hint          string      `json:"hint,omitempty"`
}

// Prompt returns whichever question field is set.
func (c QuizMcqContent) Prompt() string {
	if c.QuestionText != "" {
		return c.QuestionText
	}
	return c.Question
}

// FillInBlankContent is the FILL_IN_BLANK payload. Both the two-part and the
// template encodings are valid; the template wins when both are present.
type FillInBlankContent struct {
	SentenceParts    []string `json:"sentence_parts,omitempty"`
	SentenceTemplate string   `json:"sentence_template,omitempty"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required"`
	Hint             string   `json:"hint,omitempty"`
}

// Parts resolves the sentence around the blank.
func (c FillInBlankContent) Parts() (before, after string, ok bool) {
	if c.SentenceTemplate != "" {
		locs := blankPattern.FindAllStringIndex(c.SentenceTemplate, -1)
		if len(locs) != 1 {
			return "", "", false
		}
		return c.SentenceTemplate[:locs[0][0]], c.SentenceTemplate[locs[0][1]:], true
	}
	if len(c.SentenceParts) == 2 {
		return c.SentenceParts[0], c.SentenceParts[1], true
	}
	return "", "", false
}

// SentenceScrambleContent is the SENTENCE_SCRAMBLE payload
type SentenceScrambleContent struct {
	ScrambledWords    []string `json:"scrambled_words,omitempty"`
	ScrambledSentence string   `json:"scrambled_sentence,omitempty"`
	CorrectSentence   string   `json:"correct_sentence" validate:"required"`
	Hint              string   `json:"hint,omitempty"`
}

// SentenceTranslationContent is the SENTENCE_TRANSLATION payload
type SentenceTranslationContent struct {
	SourceSentence string `json:"source_sentence" validate:"required"`
	TargetSentence string `json:"target_sentence" validate:"required"`
	Hint           string `json:"hint,omitempty"`
}

// PronunciationContent is the PRONUNCIATION payload
type PronunciationContent struct {
	TextToPronounce string `json:"text_to_pronounce,omitempty"`
	Text            string `json:"text,omitempty"`
}

// ConversationContent is the CONVERSATION payload
type ConversationContent struct {
	Scenario      string `json:"scenario" validate:"required"`
	InitialPrompt string `json:"initial_prompt" validate:"required"`
}

// QuizQuestion is one question of a QUIZ payload
type QuizQuestion struct {
	QuestionText  string      `json:"question_text" validate:"required"`
	Options       []McqOption `json:"options" validate:"min=2,dive"`
	CorrectAnswer string      `json:"correct_answer" validate:"required"`
}

// QuizContent is the QUIZ payload
type QuizContent struct {
	Title     string         `json:"title,omitempty"`
	Questions []QuizQuestion `json:"questions" validate:"min=1,dive"`
}

// ValidateContent checks that content has the shape required by t.
func ValidateContent(t ActivityType, content json.RawMessage) error {
	if len(content) == 0 {
		return errors.New("content is empty")
	}

	switch t {
	case ActivityLessonContent:
		var c LessonContent
		return decodeAndValidate(content, &c)
	case ActivityQuizMCQ:
		var c QuizMcqContent
		if err := decodeAndValidate(content, &c); err != nil {
			return err
		}
		if strings.TrimSpace(c.Prompt()) == "" {
			return errors.New("quiz question is missing")
		}
		return checkAnswerResolvable(c.Options, c.CorrectAnswer)
	case ActivityFillInBlank:
		var c FillInBlankContent
		if err := decodeAndValidate(content, &c); err != nil {
			return err
		}
		if _, _, ok := c.Parts(); !ok {
			return errors.New("sentence must resolve to exactly two parts around one blank")
		}
		return nil
	case ActivitySentenceScramble:
		var c SentenceScrambleContent
		if err := decodeAndValidate(content, &c); err != nil {
			return err
		}
		if len(c.ScrambledWords) < 2 && strings.TrimSpace(c.ScrambledSentence) == "" {
			return errors.New("scrambled_words or scrambled_sentence is required")
		}
		return nil
	case ActivitySentenceTranslation:
		var c SentenceTranslationContent
		return decodeAndValidate(content, &c)
	case ActivityPronunciation:
		var c PronunciationContent
		if err := decodeAndValidate(content, &c); err != nil {
			return err
		}
		if c.TextToPronounce == "" && c.Text == "" {
			return errors.New("text_to_pronounce is required")
		}
		return nil
	case ActivityConversation:
		var c ConversationContent
		return decodeAndValidate(content, &c)
	case ActivityQuiz:
		var c QuizContent
		if err := decodeAndValidate(content, &c); err != nil {
			return err
		}
		for i, q := range c.Questions {
			if err := checkAnswerResolvable(q.Options, q.CorrectAnswer); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown activity type: %s", t)
}

// HasHint reports whether content carries a non-empty "hint" string.
func HasHint(content json.RawMessage) bool {
	var probe struct {
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return false
	}
	return strings.TrimSpace(probe.Hint) != ""
}

func decodeAndValidate(content json.RawMessage, dst any) error {
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("invalid content JSON: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}
	return nil
}

// checkAnswerResolvable requires the correct answer to name one of the
// options, or, when no answer text is given, exactly one flagged option.
func checkAnswerResolvable(options []McqOption, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer != "" {
		for _, o := range options {
			if strings.EqualFold(strings.TrimSpace(o.Text), answer) {
				return nil
			}
		}
		return fmt.Errorf("correct answer %q is not among the options", answer)
	}

	flagged := 0
	for _, o := range options {
		if o.IsCorrect {
			flagged++
		}
	}
	if flagged != 1 {
		return errors.New("correct answer is not resolvable")
	}
	return nil
}
