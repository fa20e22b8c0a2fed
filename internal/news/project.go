package news

import (
	"bytes"
	"encoding/json"
	"math"
)

// Row is one projected entry. Keys keep the order in which they were set
// so the artifact lists fields as configured.
type Row struct {
	keys   []string
	values map[string]any
}

func NewRow() *Row {
	return &Row{values: map[string]any{}}
}

// Set assigns a value, keeping the original position of an existing key.
func (r *Row) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val bytes.Buffer
		enc := json.NewEncoder(&val)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r.values[k]); err != nil {
			return nil, err
		}
		buf.Write(bytes.TrimRight(val.Bytes(), "\n"))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Project maps entries to rows holding the requested fields in order.
// Unknown fields project as null. score (rounded to four decimals) and
// source_url are always present.
func Project(entries []Entry, fields []string) []*Row {
	out := make([]*Row, 0, len(entries))
	for _, it := range entries {
		row := NewRow()
		for _, f := range fields {
			v, _ := it.Field(f)
			row.Set(f, v)
		}
		row.Set("score", math.Round(it.Score*1e4)/1e4)
		row.Set("source_url", it.SourceURL)
		out = append(out, row)
	}
	return out
}
