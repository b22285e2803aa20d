/*
PURPOSE:
  Typed lookups into gjson records with missing/null handling.

REQUIREMENTS:
  Implementation-discovered:
  - Null counts as missing.
  - Token counts must be integral; truncation is never silent.

ARCHITECTURE INTEGRATION:
  - Called by: internal/derive/flatten.go

ERROR HANDLING:
  - Missing fields wrap ingest.ErrMissingField; wrong types name the path.

IMPLEMENTATION RULES:
  - N/A

USAGE:
  v, ok := derive.FirstOf(phone, "deviceModel", "model")

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/ingest/errors.go

MAINTENANCE:
  - None.
*/

package derive

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/daryltucker/forest-bench/internal/ingest"
)

// FirstOf returns the value of the first candidate key present in obj.
// Upstream apps renamed several fields between releases; list the current
// name first.
func FirstOf(obj gjson.Result, keys ...string) (gjson.Result, bool) {
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func present(obj gjson.Result, path string) (gjson.Result, error) {
	v := obj.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return v, ingest.MissingField(path)
	}
	return v, nil
}

func number(obj gjson.Result, path string) (float64, error) {
	v, err := present(obj, path)
	if err != nil {
		return 0, err
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%s: expected number, got %s", path, v.Type)
	}
	return v.Float(), nil
}

// integer rejects fractional values instead of truncating them.
func integer(obj gjson.Result, path string) (int64, error) {
	f, err := number(obj, path)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: expected integer, got %s", path, obj.Get(path).Raw)
	}
	return int64(f), nil
}

// pair reads element 0 (before) and 1 (after) of a numeric array.
func pair(obj gjson.Result, path string) (before, after float64, err error) {
	if _, err = present(obj, path); err != nil {
		return 0, 0, err
	}
	if before, err = number(obj, path+".0"); err != nil {
		return 0, 0, err
	}
	if after, err = number(obj, path+".1"); err != nil {
		return 0, 0, err
	}
	return before, after, nil
}
