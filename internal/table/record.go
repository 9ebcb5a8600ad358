package table

import (
	"encoding/json"
	"strconv"
)

// Record is one listing entry: a flat mapping from field name to display value.
type Record map[string]string

// Get returns the value stored under key and whether it was present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// NewRecord flattens a decoded JSON object into a Record.
// Strings are kept verbatim, null values are dropped, and any other value is
// stored as its compact JSON text.
func NewRecord(obj map[string]interface{}) Record {
	rec := make(Record, len(obj))
	for k, v := range obj {
		s, ok := stringify(v)
		if !ok {
			continue
		}
		rec[k] = s
	}
	return rec
}

// NewRecords flattens a slice of decoded JSON objects.
func NewRecords(objs []map[string]interface{}) []Record {
	out := make([]Record, 0, len(objs))
	for _, obj := range objs {
		out = append(out, NewRecord(obj))
	}
	return out
}

func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	default:
		buf, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(buf), true
	}
}
