/*
PURPOSE:
  Insertion-ordered flat row shared by every output sink.

REQUIREMENTS:
  Implementation-discovered:
  - Dynamic batInfo_* / sensTemp_* columns rule out a fixed struct.
  - Column order must survive JSON encoding.

ARCHITECTURE INTEGRATION:
  - Produced by: FlattenedRunRow.Row(), EvaluationResultRow.Row()
  - Consumed by: internal/output, internal/store

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Re-setting a key keeps its original position.

USAGE:
  var r model.Row
  r.Set("model", "Llama 3.1 8B q4f16_1")

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package model

import (
	"bytes"
	"encoding/json"
)

// Field is one named value of a flat row.
type Field struct {
	Key   string
	Value any
}

// Row is an insertion-ordered flat mapping. The zero value is ready to use.
type Row struct {
	fields []Field
	index  map[string]int
}

// Set stores v under key. An existing key keeps its position.
func (r *Row) Set(key string, v any) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Keys returns the column names in insertion order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the ordered fields.
func (r Row) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Len reports the number of columns.
func (r Row) Len() int { return len(r.fields) }

// MarshalJSON writes the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
