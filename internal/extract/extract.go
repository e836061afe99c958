// Package extract parses JSON objects out of raw language-model output.
// Models wrap JSON in code fences, drop commas, and sprinkle markdown, so the
// parser applies a fixed ordered list of text repairs before giving up. The
// repairs are best-effort heuristics, not a grammar; on total failure the
// caller gets a ParseError carrying the original text instead of a panic.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"aura/internal/logger"
)

// maxRawLog caps how much raw model output is written to the log on a parse failure.
const maxRawLog = 500

var (
	fenceRe       = regexp.MustCompile("(?m)^```(json)?|```$")
	lineCommentRe = regexp.MustCompile(`(?m)^\s*(//|#).*$`)
	braceQuoteRe  = regexp.MustCompile(`"}\s*"`)
	quoteQuoteRe  = regexp.MustCompile(`"\s+"([^:])`)
	blankLineRe   = regexp.MustCompile(`\n\s*\n`)
	objectSpanRe  = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ParseError reports that no JSON object could be recovered from raw model
// output. Raw holds the complete original text so callers can surface it.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "extract: " + e.Reason
}

// Clean applies the repair chain to raw model output without parsing it.
// The steps run unconditionally and in a fixed order: code fences, line
// comments, missing commas, markdown emphasis, blank lines.
func Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceRe.ReplaceAllString(cleaned, "")
	cleaned = lineCommentRe.ReplaceAllString(cleaned, "")
	cleaned = braceQuoteRe.ReplaceAllString(cleaned, `"}, "`)
	cleaned = strings.ReplaceAll(cleaned, `}"`, `},"`)
	cleaned = quoteQuoteRe.ReplaceAllString(cleaned, `", "$1`)
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = blankLineRe.ReplaceAllString(cleaned, "\n")
	return cleaned
}

// Extract recovers a JSON object from raw model output. It cleans the text,
// attempts a direct parse, then falls back to the widest {...} span. On
// failure it returns a *ParseError; it never panics.
func Extract(raw string) (map[string]any, error) {
	var result map[string]any
	if err := ExtractInto(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractInto behaves like Extract but decodes into the caller's value.
func ExtractInto(raw string, v any) error {
	cleaned := Clean(raw)

	directErr := json.Unmarshal([]byte(cleaned), v)
	if directErr == nil {
		return nil
	}

	if span := objectSpanRe.FindString(cleaned); span != "" {
		if err := json.Unmarshal([]byte(span), v); err == nil {
			return nil
		}
	}

	logger.Warn("JSON parse failed", "error", directErr, "raw", truncate(raw, maxRawLog))
	return &ParseError{Reason: directErr.Error(), Raw: raw}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
