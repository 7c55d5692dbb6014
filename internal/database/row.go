package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/frame"
)

// ScanFrame reads all rows from the result set into a column-typed frame.
// Column names and order are exactly those reported by the driver.
//
// The returned frame always has a non-nil Rows slice (empty on zero rows).
// ScanFrame always closes the Rows; callers do not need to call Close().
func ScanFrame(rows Rows) (*frame.Frame, error) {
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column names", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column types", err)
	}

	cols := make([]frame.Column, len(names))
	known := make([]bool, len(names))
	for i, name := range names {
		cols[i].Name = name
		if i < len(types) {
			cols[i].Kind, known[i] = KindOf(types[i].DatabaseType)
		}
	}

	f := &frame.Frame{Columns: cols, Rows: make([][]any, 0)}

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(names))
		destPtrs := make([]any, len(names))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
		}

		row := make([]any, len(names))
		for i, raw := range dest {
			if !known[i] && raw != nil {
				cols[i].Kind, known[i] = inferKind(raw), true
			}
			v, err := convert(raw, cols[i].Kind)
			if err != nil {
				return nil, errs.Wrap(errs.ErrKindQueryFailed,
					fmt.Sprintf("failed to convert column %q", names[i]), err)
			}
			row[i] = v
		}
		f.Rows = append(f.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error during row iteration", err)
	}

	return f, nil
}

// KindOf maps an engine type name onto a frame kind. The second result is
// false for type names it does not recognise.
func KindOf(dbType string) (frame.Kind, bool) {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR", "BIT":
		return frame.KindInt, true
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
		return frame.KindFloat, true
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT",
		"ENUM", "SET", "JSON", "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return frame.KindText, true
	case "DATE", "DATETIME", "TIMESTAMP":
		return frame.KindTime, true
	case "BOOL", "BOOLEAN":
		return frame.KindBool, true
	default:
		return frame.KindOther, false
	}
}

func inferKind(v any) frame.Kind {
	switch v.(type) {
	case int64, int32, int, uint64, uint32:
		return frame.KindInt
	case float64, float32:
		return frame.KindFloat
	case time.Time:
		return frame.KindTime
	case bool:
		return frame.KindBool
	case []byte, string:
		return frame.KindText
	default:
		return frame.KindOther
	}
}

// convert turns a raw driver value into the frame representation of kind.
// The MySQL text protocol hands most values over as []byte.
func convert(v any, kind frame.Kind) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch kind {
	case frame.KindInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int32:
			return int64(x), nil
		case int:
			return int64(x), nil
		case uint64:
			return int64(x), nil
		case uint32:
			return int64(x), nil
		case string:
			return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		}
	case frame.KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(x), 64)
		}
	case frame.KindText:
		switch x := v.(type) {
		case string:
			return x, nil
		default:
			return frame.Text(x), nil
		}
	case frame.KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case string:
			return x == "1" || strings.EqualFold(x, "true"), nil
		}
	}
	return v, nil
}
