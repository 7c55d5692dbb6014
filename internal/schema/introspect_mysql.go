package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/frame"
)

// MySQLIntrospector reads table structure from information_schema for the
// connected database (schema = database in MySQL).
type MySQLIntrospector struct {
	db database.DB
}

// NewMySQLIntrospector creates a new MySQL schema introspector
func NewMySQLIntrospector(db database.DB) *MySQLIntrospector {
	return &MySQLIntrospector{db: db}
}

const listTablesSQL = `
		SELECT table_name AS table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

const listColumnsSQL = `
		SELECT
			c.table_schema             AS table_schema,
			c.table_name               AS table_name,
			c.column_name              AS column_name,
			c.data_type                AS data_type,
			c.is_nullable = 'YES'      AS is_nullable,
			(c.column_key = 'PRI')     AS is_primary_key,
			c.character_maximum_length AS max_length,
			c.column_default           AS column_default
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE()
		ORDER BY c.table_name, c.ordinal_position`

// ListTables returns all user-defined table names in the connected database.
func (m *MySQLIntrospector) ListTables(ctx context.Context) ([]string, error) {
	f, err := m.query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	tables := make([]string, 0, f.Len())
	for i := range f.Rows {
		tables = append(tables, frame.Text(f.Cell(i, 0)))
	}
	return tables, nil
}

// InspectSchema returns every table of the connected database with its
// columns in ordinal order.
func (m *MySQLIntrospector) InspectSchema(ctx context.Context) ([]TableInfo, error) {
	f, err := m.query(ctx, listColumnsSQL)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}

	idx := func(name string) int { return f.Index(name) }
	schemaCol, tableCol, nameCol := idx("table_schema"), idx("table_name"), idx("column_name")
	typeCol, nullCol, pkCol := idx("data_type"), idx("is_nullable"), idx("is_primary_key")
	lenCol, defCol := idx("max_length"), idx("column_default")
	for _, i := range []int{schemaCol, tableCol, nameCol, typeCol, nullCol, pkCol, lenCol, defCol} {
		if i < 0 {
			return nil, fmt.Errorf("inspect schema: unexpected columns %v", f.Names())
		}
	}

	var tables []TableInfo
	for i := range f.Rows {
		table := frame.Text(f.Cell(i, tableCol))
		if len(tables) == 0 || tables[len(tables)-1].Name != table {
			tables = append(tables, TableInfo{Schema: frame.Text(f.Cell(i, schemaCol)), Name: table})
		}

		col := ColumnInfo{
			Name:         frame.Text(f.Cell(i, nameCol)),
			DataType:     frame.Text(f.Cell(i, typeCol)),
			IsNullable:   truthy(f.Cell(i, nullCol)),
			IsPrimaryKey: truthy(f.Cell(i, pkCol)),
		}
		if v, ok := frame.ToFloat(f.Cell(i, lenCol)); ok {
			n := int64(v)
			col.MaxLength = &n
		}
		if v := f.Cell(i, defCol); v != nil {
			s := frame.Text(v)
			col.DefaultValue = &s
		}
		t := &tables[len(tables)-1]
		t.Columns = append(t.Columns, col)
	}
	return tables, nil
}

// Verify checks the connected database against Requirements.
func (m *MySQLIntrospector) Verify(ctx context.Context) (*Report, error) {
	tables, err := m.InspectSchema(ctx)
	if err != nil {
		return nil, err
	}
	return Check(tables, Requirements), nil
}

// Check compares inspected tables with the requirements.
func Check(tables []TableInfo, reqs []Requirement) *Report {
	byName := make(map[string]*TableInfo, len(tables))
	for i := range tables {
		byName[tables[i].Name] = &tables[i]
	}

	report := &Report{Tables: tables}
	for _, req := range reqs {
		t, ok := byName[req.Table]
		if !ok {
			report.MissingTables = append(report.MissingTables, req.Table)
			continue
		}
		for _, col := range req.Columns {
			if _, ok := t.Column(col); !ok {
				if report.MissingColumns == nil {
					report.MissingColumns = make(map[string][]string)
				}
				report.MissingColumns[req.Table] = append(report.MissingColumns[req.Table], col)
			}
		}
	}
	return report
}

func (m *MySQLIntrospector) query(ctx context.Context, sql string) (*frame.Frame, error) {
	rows, err := m.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return database.ScanFrame(rows)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case string:
		return x == "1" || x == "YES"
	default:
		return false
	}
}
