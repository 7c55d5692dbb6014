// Package frame holds a materialised query result: named, typed columns in
// the order the store returned them and every row as a slice of Go values.
//
// Cell values are one of nil (SQL NULL), int64, float64, string, bool or
// time.Time. The database layer performs the conversion; everything above
// it works on these types only.
package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Kind is the Go-side type family of a column.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindInt
	KindFloat
	KindTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "other"
	}
}

// MarshalText lets columns serialise their kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Frame is a column-typed result set.
type Frame struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// New returns an empty frame with the given columns.
func New(cols ...Column) *Frame {
	return &Frame{Columns: cols, Rows: make([][]any, 0)}
}

// Append adds a row. The row must have one value per column.
func (f *Frame) Append(values ...any) {
	f.Rows = append(f.Rows, values)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool { return len(f.Rows) == 0 }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col).
func (f *Frame) Cell(row, col int) any {
	return f.Rows[row][col]
}

// Float returns the numeric value at (row, col) and whether it was numeric
// and not NULL.
func (f *Frame) Float(row, col int) (float64, bool) {
	return ToFloat(f.Rows[row][col])
}

// Scalar returns the single cell of a one-row, one-column frame.
func (f *Frame) Scalar() (any, error) {
	if len(f.Columns) != 1 || len(f.Rows) != 1 {
		return nil, fmt.Errorf("expected a 1x1 result, got %dx%d", len(f.Rows), len(f.Columns))
	}
	return f.Rows[0][0], nil
}

// Head returns a frame with the first n rows. n beyond Len yields all rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return &Frame{Columns: f.Columns, Rows: f.Rows[:n]}
}

// NLargest returns the n rows with the largest values in column col,
// ordered descending. Ties keep their original order and NULLs sort last.
func (f *Frame) NLargest(n int, col string) (*Frame, error) {
	idx := f.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	rows := make([][]any, len(f.Rows))
	copy(rows, f.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := ToFloat(rows[i][idx])
		b, bok := ToFloat(rows[j][idx])
		if aok != bok {
			return aok
		}
		return a > b
	})
	out := &Frame{Columns: f.Columns, Rows: rows}
	return out.Head(n), nil
}

// Sum adds the numeric values of column col, skipping NULLs.
func (f *Frame) Sum(col string) (float64, error) {
	idx := f.Index(col)
	if idx < 0 {
		return 0, fmt.Errorf("unknown column %q", col)
	}
	var total float64
	for _, r := range f.Rows {
		if v, ok := ToFloat(r[idx]); ok {
			total += v
		}
	}
	return total, nil
}

// Values returns the non-NULL numeric values of column col in row order.
func (f *Frame) Values(col string) ([]float64, error) {
	idx := f.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	out := make([]float64, 0, len(f.Rows))
	for _, r := range f.Rows {
		if v, ok := ToFloat(r[idx]); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Quantile returns the q-quantile (0 <= q <= 1) of column col using linear
// interpolation between closest ranks. NULLs are skipped; a column with no
// values yields NaN.
func (f *Frame) Quantile(col string, q float64) (float64, error) {
	vals, err := f.Values(col)
	if err != nil {
		return 0, err
	}
	return Quantile(vals, q), nil
}

// Quantile computes the q-quantile of vals with linear interpolation.
// vals is not modified.
func Quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// GroupCount counts rows per distinct non-NULL value of column by. The result
// has columns (by, countName) ordered by count descending, then key ascending.
func (f *Frame) GroupCount(by, countName string) (*Frame, error) {
	idx := f.Index(by)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", by)
	}
	counts := make(map[string]int64)
	for _, r := range f.Rows {
		if r[idx] == nil {
			continue
		}
		counts[Text(r[idx])]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	out := New(Column{Name: by, Kind: KindText}, Column{Name: countName, Kind: KindInt})
	for _, k := range keys {
		out.Append(k, counts[k])
	}
	return out, nil
}

// MeltShare reshapes a (key, count) frame into long form for a stacked bar:
// for every row it emits (key, countCol, count) and (key, otherName,
// total-count), where total is the sum of countCol over all rows. The result
// columns are (key, varName, valueName).
func (f *Frame) MeltShare(key, countCol, otherName, varName, valueName string) (*Frame, error) {
	ki := f.Index(key)
	if ki < 0 {
		return nil, fmt.Errorf("unknown column %q", key)
	}
	ci := f.Index(countCol)
	if ci < 0 {
		return nil, fmt.Errorf("unknown column %q", countCol)
	}
	total, _ := f.Sum(countCol)

	out := New(
		Column{Name: key, Kind: f.Columns[ki].Kind},
		Column{Name: varName, Kind: KindText},
		Column{Name: valueName, Kind: KindFloat},
	)
	// Melt emits every row of the first variable before the second.
	for _, r := range f.Rows {
		v, _ := ToFloat(r[ci])
		out.Append(r[ki], countCol, v)
	}
	for _, r := range f.Rows {
		v, _ := ToFloat(r[ci])
		out.Append(r[ki], otherName, total-v)
	}
	return out, nil
}

// Records returns the rows as column-name keyed maps, the shape chart data
// is embedded in.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.Rows))
	for i, r := range f.Rows {
		m := make(map[string]any, len(f.Columns))
		for j, c := range f.Columns {
			m[c.Name] = r[j]
		}
		out[i] = m
	}
	return out
}

// ToFloat converts a numeric cell to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Text renders a cell as display text. NULL becomes "None", matching how the
// values print when coerced to text.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
