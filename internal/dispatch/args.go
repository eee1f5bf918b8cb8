package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seosiju/sheetgpt/internal/grid"
)

// ErrMissingPrompt is returned when the first argument is empty or absent.
var ErrMissingPrompt = errors.New("Missing prompt")

// RequestInputs is the disambiguated form of one formula call. It is built
// exactly once by Disambiguate and never re-interpreted downstream.
type RequestInputs struct {
	Prompt         string
	RangeInput     any // grid-like data, or nil
	ToolkitName    string
	OptionsPayload any // options map or JSON text, or nil
}

// Disambiguate resolves the 1–4 positional argument shapes of the GPT
// formula. First-match wins, in this order: a grid-like first trailing
// argument is the range; a following bare text value (not JSON) is the
// toolkit name; anything left is the options payload.
func Disambiguate(args []any) (RequestInputs, error) {
	var in RequestInputs

	if len(args) == 0 {
		return in, ErrMissingPrompt
	}
	in.Prompt = promptText(args[0])
	if in.Prompt == "" {
		return in, ErrMissingPrompt
	}

	var rest []any
	for _, a := range args[1:] {
		if a != nil {
			rest = append(rest, a)
		}
	}

	if len(rest) > 0 && isGridLike(rest[0]) {
		in.RangeInput = rest[0]
		rest = rest[1:]
	}

	if len(rest) > 0 {
		if name, ok := toolkitText(rest[0]); ok {
			in.ToolkitName = name
			rest = rest[1:]
		}
	}

	if len(rest) > 0 {
		in.OptionsPayload = rest[0]
	}

	return in, nil
}

// promptText coerces the prompt argument to text. Numbers and booleans get
// their textual form so `=GPT(A1)` works whatever A1 holds.
func promptText(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(p)
	default:
		return strings.TrimSpace(fmt.Sprint(p))
	}
}

// isGridLike reports whether v carries cell data: a range source, a
// two-dimensional grid, a flat row, or a non-text raw scalar (a single
// unwrapped cell value, which the normalizer turns into a 1x1 grid). Text
// and maps are excluded; those positions mean toolkit name or options.
func isGridLike(v any) bool {
	switch v.(type) {
	case grid.Source, [][]any, []any:
		return true
	case string, map[string]any:
		return false
	default:
		return true
	}
}

// toolkitText returns v as a toolkit name when it is bare text. Text opening
// a JSON object is an options payload, never a toolkit name.
func toolkitText(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		return "", false
	}
	return strings.TrimSpace(s), true
}
