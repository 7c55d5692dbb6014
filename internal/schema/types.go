package schema

// ColumnInfo describes a single column in a table
type ColumnInfo struct {
	Name         string  `json:"name"`
	DataType     string  `json:"data_type"` // mysql type: varchar, bigint, decimal, …
	IsNullable   bool    `json:"is_nullable"`
	IsPrimaryKey bool    `json:"is_primary_key"`
	MaxLength    *int64  `json:"max_length,omitempty"` // nil for non-char types
	DefaultValue *string `json:"default_value,omitempty"`
}

// TableInfo describes a table and its columns
type TableInfo struct {
	Schema  string       `json:"schema"`
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// Column returns the named column.
func (t *TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Requirement is a table the catalog reads and the columns it references.
type Requirement struct {
	Table   string
	Columns []string
}

// Requirements lists the three relations the dashboard queries, keyed by the
// shared product_code join key.
var Requirements = []Requirement{
	{
		Table:   "product_info",
		Columns: []string{"product_code", "product_name", "brand"},
	},
	{
		Table: "nutrient_info",
		Columns: []string{
			"product_code", "energy_kcal_value", "sugars_value", "fat_value",
			"carbohydrates_value", "sodium_value", "fruits_veg_nuts_pct", "nova_group",
		},
	},
	{
		Table: "derived_metrics",
		Columns: []string{
			"product_code", "calorie_category", "sugar_category",
			"sugar_to_carb_ratio", "is_ultra_processed",
		},
	},
}

// Report is the outcome of Verify.
type Report struct {
	Tables         []TableInfo         `json:"tables"`
	MissingTables  []string            `json:"missing_tables,omitempty"`
	MissingColumns map[string][]string `json:"missing_columns,omitempty"`
}

// OK reports whether every required table and column exists.
func (r *Report) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0
}
