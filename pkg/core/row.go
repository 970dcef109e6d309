package core

import (
	"fmt"
	"strings"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Get returns the value for key. If there is no exact match the lookup falls
// back to a case-insensitive one, since some engines fold catalog column
// names to lower case.
func (r Row) Get(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// String returns the value for key as text. Missing and NULL values yield "".
func (r Row) String(key string) string {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
