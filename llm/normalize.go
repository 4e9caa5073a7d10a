package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-notes/model"
)

const (
	fenceMarker      = "```"
	summaryKey       = "summary"
	followUpItemsKey = "followUpItems"
)

var (
	openingFence   = regexp.MustCompile("(?i)^```[a-z]*\n?")
	closingFence   = regexp.MustCompile("```$")
	errNotAnObject = errors.New("response is not a JSON object")
)

// ParseError reports model output that could not be read as the expected
// JSON object.
type ParseError struct {
	Text string // the text after fence removal
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Normalize extracts the analysis object from raw model output. The output
// may be wrapped in a fenced code block, with or without a language tag.
// Anything else around the object is a parse failure.
func Normalize(raw string) (model.Analysis, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, fenceMarker) {
		cleaned = openingFence.ReplaceAllString(cleaned, "")
		cleaned = closingFence.ReplaceAllString(cleaned, "")
	}

	body := strings.TrimSpace(cleaned)
	if !strings.HasPrefix(body, "{") {
		return model.Analysis{}, &ParseError{Text: cleaned, Err: errNotAnObject}
	}

	// Keys match exactly; encoding/json alone would fold case.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return model.Analysis{}, &ParseError{Text: cleaned, Err: err}
	}
	var analysis model.Analysis
	if raw, ok := fields[summaryKey]; ok {
		if err := json.Unmarshal(raw, &analysis.Summary); err != nil {
			return model.Analysis{}, &ParseError{Text: cleaned, Err: errors.Wrap(err, summaryKey)}
		}
	}
	if raw, ok := fields[followUpItemsKey]; ok {
		if err := json.Unmarshal(raw, &analysis.FollowUpItems); err != nil {
			return model.Analysis{}, &ParseError{Text: cleaned, Err: errors.Wrap(err, followUpItemsKey)}
		}
	}
	if analysis.FollowUpItems == nil {
		analysis.FollowUpItems = []string{}
	}
	return analysis, nil
}
