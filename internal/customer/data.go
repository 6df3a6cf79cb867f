package customer

import (
	"strconv"
	"strings"
)

// Data holds everything collected during one call, keyed by the field ids
// declared in the script document. The field set is defined by the document,
// not by this package, so unknown ids are tolerated.
type Data map[string]any

func New() Data {
	return Data{}
}

func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge applies a patch field-by-field, last write wins. A nil value removes
// the field, matching a JSON null in a PATCH body.
func (d Data) Merge(patch Data) {
	for k, v := range patch {
		if v == nil {
			delete(d, k)
			continue
		}
		d[k] = v
	}
}

// Answered reports whether a field has a usable value. Empty strings, nil,
// absent keys, and empty lists all count as unanswered.
func (d Data) Answered(id string) bool {
	v, ok := d[id]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

func (d Data) String(id string) string {
	v, ok := d[id]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// List returns a multi-select answer. JSON decoding produces []any, manual
// construction usually []string; both are accepted.
func (d Data) List(id string) []string {
	switch t := d[id].(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (d Data) Int(id string) (int, bool) {
	switch t := d[id].(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (d Data) Number(id string) (float64, bool) {
	switch t := d[id].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// YesNo reports whether a yes/no question was answered "Yes" (case-insensitive).
func (d Data) YesNo(id string) bool {
	return strings.EqualFold(strings.TrimSpace(d.String(id)), "yes")
}
