// Package table models a Query Service result as ordered columns plus rows
// and converts it into the API response shapes by column name.
package table

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for result decoding.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrRowWidth      = errors.New("row width does not match columns")
	ErrType          = errors.New("unexpected column type")
)

// Result is the tabular answer of a single query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r Result) Len() int { return len(r.Rows) }

// Index returns the position of the named column.
func (r Result) Index(name string) (int, bool) {
	for i, c := range r.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Records returns one map per row keyed by column name.
func (r Result) Records() ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrRowWidth, i, len(row), len(r.Columns))
		}
		rec := make(map[string]any, len(r.Columns))
		for j, c := range r.Columns {
			rec[c] = row[j]
		}
		out = append(out, rec)
	}
	return out, nil
}

// columns resolves names to positions once per result.
func (r Result) columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, ok := r.Index(n)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
		idx[i] = j
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrRowWidth, i, len(row), len(r.Columns))
		}
	}
	return idx, nil
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrType, n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %v is not integral", ErrType, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrType, v)
	}
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		i, err := asInt64(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %T is not a number", ErrType, v)
		}
		return float64(i), nil
	}
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: %T is not a string", ErrType, v)
	}
}
