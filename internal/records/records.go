// Package records reads curated place tables from the configured record
// store. Every source returns all rows of one logical table in a single call.
package records

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one row: field name to scalar or list value.
type Record map[string]any

// Source fetches all rows of a table.
type Source interface {
	FetchAll(ctx context.Context, table string) ([]Record, error)
}

// String returns the field as text. Missing, nil and blank fields return
// def. Lists are joined with ", ".
func (r Record) String(field, def string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return def
		}
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// Strings returns the field as a list. Strings are split on commas; list
// items are kept as-is. Missing fields return nil.
func (r Record) Strings(field string) []string {
	v, ok := r[field]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return strings.Split(val, ",")
	case []byte:
		if len(val) == 0 {
			return nil
		}
		return strings.Split(string(val), ",")
	default:
		return nil
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdent guards table names that are interpolated into SQL.
func validIdent(name string) error {
	if !identRe.MatchString(name) {
		return eris.Errorf("records: invalid table name %q", name)
	}
	return nil
}
