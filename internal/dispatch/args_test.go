package dispatch_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/seosiju/sheetgpt/internal/dispatch"
)

func TestDisambiguate_MissingPrompt(t *testing.T) {
	for _, args := range [][]any{
		nil,
		{""},
		{"   "},
		{nil},
	} {
		_, err := dispatch.Disambiguate(args)
		if !errors.Is(err, dispatch.ErrMissingPrompt) {
			t.Errorf("Disambiguate(%v) error = %v, want ErrMissingPrompt", args, err)
		}
	}
}

func TestDisambiguate_PromptOnly(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"Summarize"})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.Prompt != "Summarize" || in.RangeInput != nil || in.ToolkitName != "" || in.OptionsPayload != nil {
		t.Errorf("Disambiguate() = %+v", in)
	}
}

func TestDisambiguate_RangeThenToolkitThenOptions(t *testing.T) {
	rng := [][]any{{"a"}}
	in, err := dispatch.Disambiguate([]any{"p", rng, "calc", `{"temperature":0}`})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if !reflect.DeepEqual(in.RangeInput, rng) {
		t.Errorf("RangeInput = %v", in.RangeInput)
	}
	if in.ToolkitName != "calc" {
		t.Errorf("ToolkitName = %q", in.ToolkitName)
	}
	if in.OptionsPayload != `{"temperature":0}` {
		t.Errorf("OptionsPayload = %v", in.OptionsPayload)
	}
}

func TestDisambiguate_TwoArgToolkit(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"p", "calc"})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.ToolkitName != "calc" || in.RangeInput != nil || in.OptionsPayload != nil {
		t.Errorf("Disambiguate() = %+v", in)
	}
}

func TestDisambiguate_TwoArgOptionsJSONText(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"p", `{"format":"json"}`})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.ToolkitName != "" {
		t.Errorf("ToolkitName = %q, want empty for JSON text", in.ToolkitName)
	}
	if in.OptionsPayload != `{"format":"json"}` {
		t.Errorf("OptionsPayload = %v", in.OptionsPayload)
	}
}

func TestDisambiguate_OptionsMapWithoutRange(t *testing.T) {
	opts := map[string]any{"temperature": 0.1}
	in, err := dispatch.Disambiguate([]any{"p", opts})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.RangeInput != nil || in.ToolkitName != "" {
		t.Errorf("Disambiguate() = %+v", in)
	}
	if !reflect.DeepEqual(in.OptionsPayload, opts) {
		t.Errorf("OptionsPayload = %v", in.OptionsPayload)
	}
}

func TestDisambiguate_SkipsNilArguments(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"p", nil, nil, map[string]any{"format": "json"}})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.RangeInput != nil || in.ToolkitName != "" {
		t.Errorf("Disambiguate() = %+v", in)
	}
	if in.OptionsPayload == nil {
		t.Error("OptionsPayload = nil, want the options map")
	}
}

func TestDisambiguate_FlatSliceIsRange(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"p", []any{"a", "b"}})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.RangeInput == nil {
		t.Error("flat slice was not consumed as range input")
	}
}

func TestDisambiguate_RawScalarIsRange(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{"p", float64(7), "calc"})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.RangeInput != float64(7) {
		t.Errorf("RangeInput = %v, want 7", in.RangeInput)
	}
	if in.ToolkitName != "calc" {
		t.Errorf("ToolkitName = %q, want calc", in.ToolkitName)
	}
}

func TestDisambiguate_NumericPrompt(t *testing.T) {
	in, err := dispatch.Disambiguate([]any{float64(42)})
	if err != nil {
		t.Fatalf("Disambiguate() error = %v", err)
	}
	if in.Prompt != "42" {
		t.Errorf("Prompt = %q, want 42", in.Prompt)
	}
}
