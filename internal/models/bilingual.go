package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// BilingualText is the multi-field title record stored as JSON on every
// user-facing title and description. VI (the learner's native language) is
// mandatory; the other fields are filled according to the target language.
type BilingualText struct {
	VI     string `json:"vi" validate:"required"`
	EN     string `json:"en,omitempty"`
	ZH     string `json:"zh,omitempty"`
	Pinyin string `json:"pinyin,omitempty"`
}

// Value implements driver.Valuer so the record is written as a JSON document.
func (b BilingualText) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bilingual text: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSON, JSONB and TEXT columns.
func (b *BilingualText) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*b = BilingualText{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported bilingual text source %T", src)
	}
	if err := json.Unmarshal(data, b); err != nil {
		return fmt.Errorf("failed to unmarshal bilingual text: %w", err)
	}
	return nil
}

// DisplayParts is the title as the client renders it: a main line and an
// optional subtitle.
type DisplayParts struct {
	Main string `json:"main"`
	Sub  string `json:"sub,omitempty"`
}

// Display selects the fields to surface for a course in targetLanguage.
// English courses show the English title over the Vietnamese one, Chinese
// courses show hanzi over pinyin (or Vietnamese), anything else shows VI.
func (b BilingualText) Display(targetLanguage string) DisplayParts {
	switch KindOf(targetLanguage) {
	case LanguageEnglish:
		if b.EN != "" {
			return DisplayParts{Main: b.EN, Sub: b.VI}
		}
	case LanguageChinese:
		if b.ZH != "" {
			sub := b.Pinyin
			if sub == "" {
				sub = b.VI
			}
			return DisplayParts{Main: b.ZH, Sub: sub}
		}
	}
	return DisplayParts{Main: b.VI}
}

// LanguageKind groups configured target-language labels.
type LanguageKind int

const (
	LanguageOther LanguageKind = iota
	LanguageEnglish
	LanguageChinese
)

// KindOf classifies a target-language label such as "Tiếng Anh" or "Chinese".
func KindOf(targetLanguage string) LanguageKind {
	l := strings.ToLower(targetLanguage)
	switch {
	case strings.Contains(l, "anh"), strings.Contains(l, "english"):
		return LanguageEnglish
	case strings.Contains(l, "trung"), strings.Contains(l, "chinese"), strings.Contains(l, "hsk"):
		return LanguageChinese
	}
	return LanguageOther
}
