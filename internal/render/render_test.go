package render

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/chococrunch/internal/catalog"
	"github.com/koustreak/chococrunch/internal/database/dbtest"
	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/executor"
)

func statement(t *testing.T, domain string, ordinal int) catalog.Query {
	t.Helper()
	d, ok := catalog.Lookup(domain)
	require.True(t, ok)
	q, ok := d.At(ordinal)
	require.True(t, ok)
	return q
}

func renderer(db *dbtest.DB) *Renderer {
	return New(executor.New(db), nil)
}

func brands(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{string(rune('A' + i)), int64(100 - i)}
	}
	return rows
}

func encoding(t *testing.T, c *Chart) map[string]any {
	t.Helper()
	enc, ok := c.Spec["encoding"].(map[string]any)
	require.True(t, ok)
	return enc
}

func TestRender_UniqueBrandsMetric(t *testing.T) {
	q := statement(t, catalog.Product, 5)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("unique_brands", "BIGINT"),
		Rows:    [][]any{{"3"}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Product, q.Label, Params{})
	require.NoError(t, err)

	require.NotNil(t, v.Metric)
	assert.Equal(t, Metric{Label: "Unique Brands", Value: "3"}, *v.Metric)
	assert.Nil(t, v.Table)
	assert.Nil(t, v.Chart)
}

func TestRender_ZeroCountIsMetricNotTable(t *testing.T) {
	q := statement(t, catalog.Nutrient, 3)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("fat_count", "BIGINT"),
		Rows:    [][]any{{"0"}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Nutrient, q.Label, Params{})
	require.NoError(t, err)

	require.NotNil(t, v.Metric)
	assert.Equal(t, q.Label, v.Metric.Label)
	assert.Equal(t, "0", v.Metric.Value)
	assert.Nil(t, v.Table)
}

func TestRender_MetricOfNullAverage(t *testing.T) {
	q := statement(t, catalog.Derived, 3)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("avg_ratio", "DECIMAL"),
		Rows:    [][]any{{nil}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Derived, q.Label, Params{})
	require.NoError(t, err)
	assert.Equal(t, "n/a", v.Metric.Value)
}

func TestRender_MetricRejectsWrongShape(t *testing.T) {
	q := statement(t, catalog.Derived, 2)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("high_sugar_count", "BIGINT"),
	})

	_, err := renderer(db).Render(context.Background(), catalog.Derived, q.Label, Params{})
	require.Error(t, err)
	assert.Equal(t, errs.ErrKindRenderFailed, errs.KindOf(err))
}

func TestRender_TopNClamping(t *testing.T) {
	q := statement(t, catalog.Product, 1)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("brand", "VARCHAR", "total_products", "BIGINT"),
		Rows:    brands(8),
	})
	r := renderer(db)

	tests := []struct {
		name string
		top  int
		want int
	}{
		{"default capped at row count", 0, 8},
		{"within bounds", 6, 6},
		{"below minimum", 2, 5},
		{"beyond row count", 50, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := r.Render(context.Background(), catalog.Product, q.Label, Params{TopN: tt.top})
			require.NoError(t, err)
			require.NotNil(t, v.Chart)
			require.NotNil(t, v.Chart.TopN)

			assert.Equal(t, tt.want, v.Chart.TopN.Value)
			assert.Equal(t, 5, v.Chart.TopN.Min)
			assert.Equal(t, 8, v.Chart.TopN.Max)
			assert.Equal(t, tt.want, v.Chart.Frame.Len())
			assert.Equal(t, 8, v.Table.Len(), "table always shows every row")
		})
	}
}

func TestRender_CategoryAxisSort(t *testing.T) {
	categories := [][]any{{"Moderate", "12"}, {"High Calorie", "30"}, {"Low Calorie", "4"}}

	tests := []struct {
		name    string
		domain  string
		ordinal int
		cols    []string
		rows    [][]any
		channel string
		want    any // nil means no sort key
	}{
		{"result order pinned", catalog.Product, 1, []string{"brand", "VARCHAR", "total_products", "BIGINT"}, brands(5), "x", []string{"A", "B", "C", "D", "E"}},
		{"by value", catalog.Nutrient, 7, []string{"product_name", "VARCHAR", "energy_kcal_value", "BIGINT"}, brands(5), "y", "-x"},
		{"categories left alphabetical", catalog.Derived, 1, []string{"calorie_category", "VARCHAR", "product_count", "BIGINT"}, categories, "x", nil},
		{"ratios left alphabetical", catalog.Derived, 7, []string{"calorie_category", "VARCHAR", "avg_ratio", "DECIMAL"}, categories, "x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := statement(t, tt.domain, tt.ordinal)
			db := dbtest.New().On(q.Statement, dbtest.Result{Columns: dbtest.Cols(tt.cols...), Rows: tt.rows})

			v, err := renderer(db).Render(context.Background(), tt.domain, q.Label, Params{})
			require.NoError(t, err)
			require.NotNil(t, v.Chart)

			ch := encoding(t, v.Chart)[tt.channel].(map[string]any)
			sort, ok := ch["sort"]
			if tt.want == nil {
				assert.False(t, ok, "unexpected sort %v", sort)
				return
			}
			assert.Equal(t, tt.want, sort)
		})
	}
}

func TestRender_TopNRankedDescending(t *testing.T) {
	q := statement(t, catalog.Nutrient, 7)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("product_name", "VARCHAR", "energy_kcal_value", "DOUBLE"),
		Rows: [][]any{
			{"a", "510"}, {"b", "900"}, {"c", "620"}, {"d", "700"},
			{"e", "505"}, {"f", "880"}, {"g", "530"},
		},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Nutrient, q.Label, Params{TopN: 5})
	require.NoError(t, err)
	require.NotNil(t, v.Chart)

	vals, err := v.Chart.Frame.Values("energy_kcal_value")
	require.NoError(t, err)
	assert.Equal(t, []float64{900, 880, 700, 620, 530}, vals)
}

func TestRender_TooFewRowsSkipsChart(t *testing.T) {
	q := statement(t, catalog.Product, 2)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("brand", "VARCHAR", "unique_products", "BIGINT"),
		Rows:    brands(3),
	})

	v, err := renderer(db).Render(context.Background(), catalog.Product, q.Label, Params{})
	require.NoError(t, err)

	assert.Nil(t, v.Chart)
	assert.Equal(t, 3, v.Table.Len())
	require.Len(t, v.Notices, 1)
	assert.Equal(t, LevelInfo, v.Notices[0].Level)
}

func TestRender_EmptyResultSkipsChart(t *testing.T) {
	q := statement(t, catalog.Join, 1)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("brand", "VARCHAR", "high_calorie_count", "BIGINT"),
	})

	v, err := renderer(db).Render(context.Background(), catalog.Join, q.Label, Params{})
	require.NoError(t, err)
	assert.Nil(t, v.Chart)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, LevelInfo, v.Notices[0].Level)
}

func TestRender_MissingNamesZeroSum(t *testing.T) {
	q := statement(t, catalog.Product, 4)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("brand", "VARCHAR", "missing_names", "BIGINT"),
		Rows:    [][]any{{"A", "0"}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Product, q.Label, Params{})
	require.NoError(t, err)
	assert.Nil(t, v.Chart)
	assert.Equal(t, []Notice{{Level: LevelInfo, Text: "✅ No missing product names found for any brand."}}, v.Notices)
}

func TestRender_UltraProcessedEmptyWarns(t *testing.T) {
	q := statement(t, catalog.Join, 5)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("brand", "VARCHAR", "avg_sugars", "DECIMAL"),
	})

	v, err := renderer(db).Render(context.Background(), catalog.Join, q.Label, Params{})
	require.NoError(t, err)
	assert.Equal(t, []Notice{{Level: LevelWarning, Text: "No data available for ultra-processed products."}}, v.Notices)
}

func TestRender_HighCalorieHighSugarGroupsByBrand(t *testing.T) {
	q := statement(t, catalog.Derived, 4)
	rows := [][]any{}
	for _, b := range []string{"X", "Y", "X", "Z", "W", "X", "Y"} {
		rows = append(rows, []any{"p", b, "High Calorie", "High Sugar"})
	}
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("product_name", "VARCHAR", "brand", "VARCHAR",
			"calorie_category", "VARCHAR", "sugar_category", "VARCHAR"),
		Rows: rows,
	})

	v, err := renderer(db).Render(context.Background(), catalog.Derived, q.Label, Params{})
	require.NoError(t, err)
	require.NotNil(t, v.Chart)

	assert.Equal(t, 3, v.Chart.TopN.Min)
	assert.Equal(t, 4, v.Chart.TopN.Max)
	assert.Equal(t, 4, v.Chart.TopN.Value)
	assert.Equal(t, []string{"brand", "count"}, v.Chart.Frame.Names())
	assert.Equal(t, []any{"X", int64(3)}, v.Chart.Frame.Rows[0])
	assert.Equal(t, []any{"Y", int64(2)}, v.Chart.Frame.Rows[1])
}

func TestRender_ScatterZoom(t *testing.T) {
	q := statement(t, catalog.Join, 4)
	rows := make([][]any, 0, 101)
	for i := 0; i <= 100; i++ {
		rows = append(rows, []any{"p", "b", float64(i), float64(2 * i)})
	}
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("product_name", "VARCHAR", "brand", "VARCHAR",
			"energy_kcal_value", "DOUBLE", "sugars_value", "DOUBLE"),
		Rows: rows,
	})
	r := renderer(db)

	domain := func(v *View, axis string) []float64 {
		enc := encoding(t, v.Chart)
		sc := enc[axis].(map[string]any)["scale"].(map[string]any)
		return sc["domain"].([]float64)
	}

	v, err := r.Render(context.Background(), catalog.Join, q.Label, Params{})
	require.NoError(t, err)
	require.NotNil(t, v.Chart.Zoom)
	assert.Equal(t, 99, v.Chart.Zoom.Value)
	assert.Equal(t, []float64{1, 99}, domain(v, "x"))
	assert.Equal(t, []float64{2, 198}, domain(v, "y"))

	v, err = r.Render(context.Background(), catalog.Join, q.Label, Params{Zoom: 100})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100}, domain(v, "x"))
	assert.Equal(t, []float64{0, 200}, domain(v, "y"))
}

func TestRender_StackedShare(t *testing.T) {
	q := statement(t, catalog.Join, 6)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("calorie_category", "VARCHAR", "fv_nuts_count", "BIGINT"),
		Rows:    [][]any{{"High Calorie", "4"}, {"Low Calorie", "6"}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Join, q.Label, Params{})
	require.NoError(t, err)
	require.NotNil(t, v.Chart)

	f := v.Chart.Frame
	assert.Equal(t, []string{"calorie_category", "Product Type", "Count"}, f.Names())
	assert.Equal(t, [][]any{
		{"High Calorie", "fv_nuts_count", 4.0},
		{"Low Calorie", "fv_nuts_count", 6.0},
		{"High Calorie", "other_products", 6.0},
		{"Low Calorie", "other_products", 4.0},
	}, f.Rows)
}

func TestRender_DonutUsesQueryData(t *testing.T) {
	q := statement(t, catalog.Join, 2)
	db := dbtest.New().On(q.Statement, dbtest.Result{
		Columns: dbtest.Cols("calorie_category", "VARCHAR", "avg_energy", "DOUBLE"),
		Rows:    [][]any{{"High Calorie", "480.5"}, {"Low Calorie", "40"}},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Join, q.Label, Params{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"type": "arc", "innerRadius": 50}, v.Chart.Spec["mark"])
	values := v.Chart.Spec["data"].(map[string]any)["values"].([]map[string]any)
	require.Len(t, values, 2)
	assert.Equal(t, 480.5, values[0]["avg_energy"])

	_, err = json.Marshal(v)
	assert.NoError(t, err)
}

func TestRender_WordCloud(t *testing.T) {
	q := statement(t, catalog.Product, 6)
	db := dbtest.New().On(q.Variant, dbtest.Result{
		Columns: dbtest.Cols("product_code", "VARCHAR", "product_name", "VARCHAR"),
		Rows: [][]any{
			{" 3017620422003 ", "  Nutella  "},
			{"3045140105502", "Milka Noisettes"},
			{"3229820129488", "Nutella biscuits"},
		},
	})

	v, err := renderer(db).Render(context.Background(), catalog.Product, q.Label, Params{})
	require.NoError(t, err)

	require.Equal(t, 3, v.Table.Len())
	assert.Equal(t, []any{"3017620422003", "Nutella"}, v.Table.Rows[0])
	assert.Equal(t, []Notice{{Level: LevelSuccess, Text: "✅ Found 3 products starting with code '3'"}}, v.Notices)
	require.NotEmpty(t, v.Cloud)
	assert.Equal(t, "Nutella", v.Cloud[0].Text)
	assert.Equal(t, 2, v.Cloud[0].Count)
	assert.Equal(t, []string{q.Variant}, db.Queries())
}

func TestRender_WordCloudEmpty(t *testing.T) {
	q := statement(t, catalog.Product, 6)
	db := dbtest.New().On(q.Variant, dbtest.Result{
		Columns: dbtest.Cols("product_code", "VARCHAR", "product_name", "VARCHAR"),
	})

	v, err := renderer(db).Render(context.Background(), catalog.Product, q.Label, Params{})
	require.NoError(t, err)
	assert.Empty(t, v.Cloud)
	assert.Equal(t, []Notice{{Level: LevelWarning, Text: "No product names available for WordCloud."}}, v.Notices)
}

func TestRender_Errors(t *testing.T) {
	r := renderer(dbtest.New())

	_, err := r.Render(context.Background(), "recipes", "1. x", Params{})
	assert.True(t, errs.IsNotFound(err))

	_, err = r.RenderOrdinal(context.Background(), catalog.Join, 8, Params{})
	assert.True(t, errs.IsNotFound(err))

	_, err = r.RenderOrdinal(context.Background(), catalog.Join, 4, Params{Zoom: 80})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = r.RenderOrdinal(context.Background(), catalog.Join, 1, Params{TopN: -1})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = r.RenderOrdinal(context.Background(), catalog.Join, 1, Params{})
	assert.True(t, errs.IsQueryFailed(err))
}

func TestRules_LabelsExistInCatalog(t *testing.T) {
	for domain, byLabel := range rules {
		d, ok := catalog.Lookup(domain)
		require.True(t, ok, domain)
		for label := range byLabel {
			_, ok := d.Query(label)
			assert.True(t, ok, "%s: %q", domain, label)
		}
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", FormatValue(int64(3)))
	assert.Equal(t, "0", FormatValue(0.0))
	assert.Equal(t, "0.4125", FormatValue(0.4125))
	assert.Equal(t, "n/a", FormatValue(nil))
	assert.Equal(t, "Milka", FormatValue("Milka"))
}
