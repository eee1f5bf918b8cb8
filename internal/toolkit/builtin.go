package toolkit

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// DefaultRegistry returns a registry pre-loaded with the built-in toolkits.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CalcToolkit())
	r.Register(DatetimeToolkit())
	return r
}

func numberParam(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

// CalcToolkit does exact arithmetic, which models reliably get wrong on
// large operands.
func CalcToolkit() *Toolkit {
	return NewToolkit("calc",
		Tool{
			Name:        "add",
			Description: "Add two numbers and return the exact sum.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": numberParam("first operand"),
					"b": numberParam("second operand"),
				},
				"required": []string{"a", "b"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return formatNumber(number(args["a"]) + number(args["b"])), nil
			},
		},
		Tool{
			Name:        "multiply",
			Description: "Multiply two numbers and return the exact product.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": numberParam("first operand"),
					"b": numberParam("second operand"),
				},
				"required": []string{"a", "b"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return formatNumber(number(args["a"]) * number(args["b"])), nil
			},
		},
		Tool{
			Name:        "divide",
			Description: "Divide the first number by the second.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": numberParam("dividend"),
					"b": numberParam("divisor"),
				},
				"required": []string{"a", "b"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				b := number(args["b"])
				if b == 0 {
					return "", fmt.Errorf("division by zero")
				}
				return formatNumber(number(args["a"]) / b), nil
			},
		},
	)
}

// DatetimeToolkit answers time questions the model cannot know.
func DatetimeToolkit() *Toolkit {
	return NewToolkit("datetime",
		Tool{
			Name:        "now",
			Description: "Return the current date and time in RFC 3339 form.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return time.Now().Format(time.RFC3339), nil
			},
		},
		Tool{
			Name:        "day_of_week",
			Description: "Return the weekday name for a date given as YYYY-MM-DD.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date": map[string]any{"type": "string", "description": "date in YYYY-MM-DD form"},
				},
				"required": []string{"date"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				date, _ := args["date"].(string)
				t, err := time.Parse("2006-01-02", date)
				if err != nil {
					return "", fmt.Errorf("invalid date %q: %w", date, err)
				}
				return t.Weekday().String(), nil
			},
		},
	)
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
