/*
PURPOSE:
  Parses the multi-line thermal sensor dumps taken before and after a run.

REQUIREMENTS:
  User-specified:
  - Lines are "name: value"; empty lines and the 273000 sentinel are dropped.

  Implementation-discovered:
  - Some kernels append further ": ..." segments; only the first value counts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/derive/flatten.go

ERROR HANDLING:
  - A line without a separator or with a non-numeric value is an error.

IMPLEMENTATION RULES:
  - Keep first-seen order; the flattener zips before/after by position.

USAGE:
  rs, err := derive.ParseSensorBlock(block, "273000")

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/derive/flatten.go

MAINTENANCE:
  - None.
*/

package derive

import (
	"fmt"
	"strconv"
	"strings"
)

// Reading is one parsed "name: value" sensor line.
type Reading struct {
	Name  string
	Value float64
}

// ParseSensorBlock parses a multi-line sensor dump. Empty lines and lines
// containing sentinel (the 273000 placeholder some kernels report for an
// absent thermal zone) are dropped entirely. A repeated sensor name keeps
// its first position and its last value.
func ParseSensorBlock(block, sentinel string) ([]Reading, error) {
	var readings []Reading
	index := make(map[string]int)

	for _, line := range strings.Split(block, "\n") {
		if line == "" || (sentinel != "" && strings.Contains(line, sentinel)) {
			continue
		}
		parts := strings.Split(line, ": ")
		if len(parts) < 2 {
			return nil, fmt.Errorf("sensor line %q: expected \"name: value\"", line)
		}
		// Trailing ": ..." segments are annotations.
		name, value := parts[0], parts[1]
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("sensor line %q: %w", line, err)
		}

		if i, seen := index[name]; seen {
			readings[i].Value = f
			continue
		}
		index[name] = len(readings)
		readings = append(readings, Reading{Name: name, Value: f})
	}
	return readings, nil
}
