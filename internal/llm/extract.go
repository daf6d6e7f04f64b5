package llm

import (
	"encoding/json"
	"strings"

	"github.com/lingopath/backend/internal/apperr"
)

// ExtractJSON returns the JSON object or array embedded in text. The contents
// of markdown code fences are searched first, so bracketed prose around a
// fenced payload is ignored; otherwise the first balanced value in the bare
// text that parses as JSON wins. When nothing parses it returns a
// *apperr.MalformedModelOutputError carrying the raw text.
func ExtractJSON(text string) (json.RawMessage, error) {
	for _, block := range fencedBlocks(text) {
		if payload, ok := scanJSON(block); ok {
			return payload, nil
		}
	}
	if payload, ok := scanJSON(text); ok {
		return payload, nil
	}
	return nil, apperr.NewMalformed("no JSON value found in model reply", text, nil)
}

// fencedBlocks returns the bodies of ``` fences in order, without the info
// string on the opening line. An unterminated fence runs to the end of text.
func fencedBlocks(text string) []string {
	var blocks []string
	for {
		start := strings.Index(text, fence)
		if start < 0 {
			return blocks
		}
		body := text[start+len(fence):]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
			body = body[nl+1:]
		}

		end := strings.Index(body, fence)
		if end < 0 {
			return append(blocks, body)
		}
		blocks = append(blocks, body[:end])
		text = body[end+len(fence):]
	}
}

const fence = "```"

func scanJSON(text string) (json.RawMessage, bool) {
	for start := 0; start < len(text); {
		offset := strings.IndexAny(text[start:], "{[")
		if offset < 0 {
			break
		}
		open := start + offset

		if end, ok := matchClosing(text, open); ok {
			candidate := text[open : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), true
			}
		}
		start = open + 1
	}
	return nil, false
}

// matchClosing finds the index of the bracket closing the one at open.
// Brackets inside string literals are skipped; a mismatched closer aborts.
func matchClosing(text string, open int) (int, bool) {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
