// Package grid normalizes spreadsheet-range inputs into a canonical
// two-dimensional cell grid and serializes it into the textual context
// block sent alongside the prompt.
package grid

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Source is a range-like input that can materialize its cell values and
// report which sheet it came from. Spreadsheet connectors implement this;
// plain nested slices are accepted directly.
type Source interface {
	Values() ([][]any, error)
	Sheet() string
}

const (
	colSeparator = ", "
	rowSeparator = "\n"
)

// Normalize converts an arbitrary range input into a grid of cells.
//
//   - nil → empty grid
//   - Source → its materialized values; a failure to materialize is logged
//     and yields an empty grid rather than an error
//   - [][]any → used as-is
//   - []any → one row
//   - anything else → a 1x1 grid holding the scalar
func Normalize(input any) [][]any {
	switch v := input.(type) {
	case nil:
		return nil
	case Source:
		values, err := v.Values()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to materialize range values")
			return nil
		}
		return values
	case [][]any:
		return v
	case []any:
		if nested, ok := asNested(v); ok {
			return nested
		}
		return [][]any{v}
	default:
		return [][]any{{v}}
	}
}

// asNested detects a []any whose elements are all rows ([]any), the shape
// a JSON 2D array decodes into.
func asNested(v []any) ([][]any, bool) {
	if len(v) == 0 {
		return nil, false
	}
	rows := make([][]any, 0, len(v))
	for _, el := range v {
		row, ok := el.([]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

// SheetIdentity extracts the sheet name when the input carries one.
func SheetIdentity(input any) string {
	if src, ok := input.(Source); ok {
		return src.Sheet()
	}
	return ""
}

// Serialize renders a grid into the context string. Cells are joined by
// ", " within a row and rows by newlines; rows whose cells all render empty
// are dropped entirely, so the separators of an empty row never leak into
// the context.
func Serialize(rows [][]any) string {
	var out []string
	for _, row := range rows {
		cells := make([]string, len(row))
		empty := true
		for i, cell := range row {
			cells[i] = renderCell(cell)
			if strings.TrimSpace(cells[i]) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		out = append(out, strings.TrimSpace(strings.Join(cells, colSeparator)))
	}
	return strings.Join(out, rowSeparator)
}

// renderCell converts one cell value to text. Dates become ISO-8601 with
// offset; structured values become their JSON form; both fall back to the
// generic textual form when rendering fails.
func renderCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case map[string]any, []any, [][]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	case float64:
		// Spreadsheet numbers arrive as float64; render integers without
		// a trailing ".0" the way a sheet displays them.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}
