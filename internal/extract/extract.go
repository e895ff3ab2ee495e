// Package extract pulls a JSON object out of free-form model text. Models
// rarely return bare JSON: the object usually arrives wrapped in prose or a
// markdown code fence. Extraction is layered - a fence tagged json, then any
// fence, then the largest balanced brace-delimited substring - and every
// caller goes through JSON so the fallback order lives in exactly one place.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoJSON is returned when no parseable JSON object can be found.
var ErrNoJSON = errors.New("no JSON object found in text")

// JSON extracts the first parseable JSON object from blob.
func JSON(blob string) ([]byte, error) {
	fences := fencedBlocks([]byte(blob))

	// Pass 1: fences explicitly tagged json.
	for _, f := range fences {
		if f.language == "json" {
			if obj, ok := objectIn(f.body); ok {
				return obj, nil
			}
		}
	}

	// Pass 2: any fence.
	for _, f := range fences {
		if obj, ok := objectIn(f.body); ok {
			return obj, nil
		}
	}

	// Pass 3: brace scan over the raw text.
	if obj, ok := largestObject(blob); ok {
		return obj, nil
	}

	return nil, ErrNoJSON
}

type fence struct {
	language string
	body     string
}

// fencedBlocks parses blob as markdown and returns every fenced code block
// with its info-string language.
func fencedBlocks(source []byte) []fence {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var fences []fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fc, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := fc.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(source[seg.Start:seg.Stop])
		}

		lang := ""
		if l := fc.Language(source); l != nil {
			lang = strings.ToLower(string(l))
		}

		fences = append(fences, fence{language: lang, body: buf.String()})
		return ast.WalkContinue, nil
	})
	return fences
}

// objectIn returns the JSON object contained in s: the whole string when it
// already is one, otherwise the largest balanced object inside it.
func objectIn(s string) ([]byte, bool) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return []byte(trimmed), true
	}
	return largestObject(s)
}

// largestObject scans s for balanced {...} substrings and returns the
// longest one that parses as JSON. Brace tracking skips string literals so
// braces inside values do not break the balance.
func largestObject(s string) ([]byte, bool) {
	var best []byte

	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}

		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
			c := s[i]
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
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if len(candidate) > len(best) && json.Valid([]byte(candidate)) {
						best = []byte(candidate)
					}
					i = len(s) // done with this start
				}
			}
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}
