/*
PURPOSE:
  Column layout and cell rendering shared by the CSV, workbook and SQLite sinks.

REQUIREMENTS:
  User-specified:
  - Header is the union of row keys in first-seen order.

  Implementation-discovered:
  - Floats render in shortest round-trip form, so 256.0 is "256".

ARCHITECTURE INTEGRATION:
  - Used by: internal/output/csv.go, xlsx.go, internal/store

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Missing cells render empty, never zero.

USAGE:
  cols := output.Columns(rows)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/output/csv.go

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"
	"strconv"

	"github.com/daryltucker/forest-bench/internal/model"
)

// Columns returns the union of all row keys in first-seen order.
func Columns(rows []model.Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// FormatValue renders a cell value. Floats use the shortest representation
// that round-trips, so 256.0 is written as "256".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
