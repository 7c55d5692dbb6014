package render

import "github.com/koustreak/chococrunch/internal/catalog"

// Display selects how the result itself is shown.
type Display int

const (
	DisplayTable Display = iota
	DisplayMetric
	DisplayWordCloud
)

// Mark is the chart shape.
type Mark string

const (
	MarkBar      Mark = "bar"      // vertical bars, category on x
	MarkHBar     Mark = "hbar"     // horizontal bars, category on y
	MarkLollipop Mark = "lollipop" // rule from zero plus a circle
	MarkDonut    Mark = "donut"
	MarkScatter  Mark = "scatter"
	MarkStacked  Mark = "stacked"
)

// Transform reshapes the result before charting.
type Transform int

const (
	TransformNone       Transform = iota
	TransformHead                 // first N rows in result order
	TransformNLargest             // N rows with the largest Rank values
	TransformGroupCount           // count rows per Category, then first N
	TransformMeltShare            // Value against the remainder of its column total
)

// Sort orders the category axis of bar charts.
type Sort int

const (
	SortByValue     Sort = iota // descending by value
	SortResultOrder             // rows as the query returned them
	SortNone                    // left to Vega-Lite, ascending by category
)

// TopN is a slider that truncates the charted rows.
type TopN struct {
	Label   string
	Min     int
	Default int
}

// Empty describes what to show instead of a chart when there is nothing to plot.
type Empty struct {
	Level Level
	Text  string

	// ZeroSum also treats a result whose Value column sums to zero as empty.
	ZeroSum bool
}

// ChartRule binds result columns to visual channels.
type ChartRule struct {
	Title string
	Mark  Mark

	// Category is the discrete axis (donut: slice colour); Value the
	// measured axis (donut: angle). Scatter plots Category on x and Value on y.
	Category      string
	Value         string
	CategoryTitle string
	ValueTitle    string

	// Color is the column coloured by; Scheme a named Vega colour scheme and
	// FixedColor a single CSS colour used when Color is empty.
	Color      string
	ColorTitle string
	Scheme     string
	FixedColor string
	NoLegend   bool

	Sort        Sort
	Tooltip     []string
	InnerRadius int

	Transform Transform
	Rank      string // column ranked by TransformNLargest
	// Count and Other name the derived columns of TransformGroupCount and
	// TransformMeltShare.
	Count string
	Other string

	TopN  *TopN
	Zoom  bool
	Empty *Empty
}

// Rule is the complete rendering of one catalog entry.
type Rule struct {
	Display Display
	// MetricLabel overrides the query label on a metric card.
	MetricLabel string
	Chart       *ChartRule
}

const (
	topBrands   = "Select number of top brands to view"
	topProducts = "Select number of top products to view"
	zoomLabel   = "Select zoom level (ignore top % outliers):"
)

func brandsSlider() *TopN   { return &TopN{Label: topBrands, Min: 5, Default: 10} }
func productsSlider() *TopN { return &TopN{Label: topProducts, Min: 5, Default: 10} }

// rules maps domain and label to a rendering. Labels without an entry render
// as a plain table.
var rules = map[string]map[string]Rule{
	catalog.Product: {
		"1. Count products per brand": {Chart: &ChartRule{
			Title: "📦 Count of Products per Brand (Bar Chart)", Mark: MarkBar,
			Category: "brand", Value: "total_products",
			CategoryTitle: "Brand", ValueTitle: "Number of Products",
			FixedColor: "#B69F2E", Sort: SortResultOrder,
			Transform: TransformHead, TopN: brandsSlider(),
		}},
		"2. Count unique products per brand": {Chart: &ChartRule{
			Title: "🛍️ Count of Unique Products per Brand (Bar Chart)", Mark: MarkBar,
			Category: "brand", Value: "unique_products",
			CategoryTitle: "Brand", ValueTitle: "Number of Unique Products",
			FixedColor: "#16A374", Sort: SortResultOrder,
			Transform: TransformHead, TopN: brandsSlider(),
		}},
		"3. Top 5 brands by product count": {Chart: &ChartRule{
			Title: "🏆 Top 5 Brands by Number of Products (Bar Chart)", Mark: MarkHBar,
			Category: "brand", Value: "total_products",
			CategoryTitle: "Brand", ValueTitle: "Count of Products",
			Color: "brand", NoLegend: true,
		}},
		"4. Products with missing product name": {Chart: &ChartRule{
			Title: "❓ Brands with Missing Product Names (Bar Chart)", Mark: MarkHBar,
			Category: "brand", Value: "missing_names",
			CategoryTitle: "Brand", ValueTitle: "Products without a Name",
			Color: "missing_names", Scheme: "goldorange",
			Transform: TransformHead, TopN: brandsSlider(),
			Empty: &Empty{Level: LevelInfo, Text: "✅ No missing product names found for any brand.", ZeroSum: true},
		}},
		"5. Number of unique brands": {Display: DisplayMetric, MetricLabel: "Unique Brands"},
		catalog.LabelCodePrefix3:     {Display: DisplayWordCloud},
	},
	catalog.Nutrient: {
		"1. Top 10 products with highest energy_kcal_value": {Chart: &ChartRule{
			Title: "🔥 Top 10 Highest-Energy Products (Bar Chart)", Mark: MarkBar,
			Category: "product_name", Value: "energy_kcal_value",
			CategoryTitle: "Product", ValueTitle: "Energy (kcal)",
			Color: "energy_kcal_value", Scheme: "oranges",
			Transform: TransformNLargest, Rank: "energy_kcal_value", TopN: productsSlider(),
		}},
		"2. Average sugars_value per nova_group": {Chart: &ChartRule{
			Title: "🍬 Average Sugar Content by NOVA Group (Vertical Lollipop Chart)", Mark: MarkLollipop,
			Category: "nova_group", Value: "avg_sugar",
			CategoryTitle: "NOVA Group", ValueTitle: "Average Sugar (g)",
			Color: "avg_sugar", ColorTitle: "Avg Sugar (g)", Scheme: "reds",
		}},
		"3. Count products with fat_value > 20g": {Display: DisplayMetric},
		"4. Average carbohydrates_value per product": {Chart: &ChartRule{
			Title: "🍞 Average Carbohydrates per Product – Top Products (Horizontal Bar Chart)", Mark: MarkHBar,
			Category: "Product Name", Value: "Average Carbs Value",
			CategoryTitle: "Product", ValueTitle: "Average Carbs (g)",
			Color: "Average Carbs Value", Scheme: "blueorange",
			Transform: TransformNLargest, Rank: "Average Carbs Value", TopN: productsSlider(),
		}},
		"5. Products with sodium_value > 1g": {Chart: &ChartRule{
			Title: "⚠️ Top High-Sodium Products [>1g] (Horizontal Bar Chart)", Mark: MarkHBar,
			Category: "product_name", Value: "sodium_value",
			CategoryTitle: "Product", ValueTitle: "Sodium (g)",
			Color: "sodium_value", Scheme: "browns",
			Transform: TransformNLargest, Rank: "sodium_value", TopN: productsSlider(),
		}},
		"6. Count products with non-zero fruits-vegetables-nuts content": {Display: DisplayMetric},
		"7. Products with energy_kcal_value > 500": {Chart: &ChartRule{
			Title: "🔥 Products with Highest Energy Content [>500 kcal] (Horizontal Bar Chart)", Mark: MarkHBar,
			Category: "product_name", Value: "energy_kcal_value",
			CategoryTitle: "Product", ValueTitle: "Energy (kcal)",
			Color: "energy_kcal_value", Scheme: "orangered",
			Transform: TransformNLargest, Rank: "energy_kcal_value", TopN: productsSlider(),
		}},
	},
	catalog.Derived: {
		"1. Count products per calorie_category": {Chart: &ChartRule{
			Title: "🔥 Number of Products by Calorie Category (Bar Chart)", Mark: MarkBar,
			Category: "calorie_category", Value: "product_count",
			CategoryTitle: "Calorie Category", ValueTitle: "Number of Products",
			Color: "calorie_category", NoLegend: true, Sort: SortNone,
		}},
		"2. Count of High Sugar products":                         {Display: DisplayMetric},
		"3. Average sugar_to_carb_ratio for High Calorie products": {Display: DisplayMetric},
		"4. Products that are both High Calorie and High Sugar": {Chart: &ChartRule{
			Title: "🚨 Top Brands with High Calorie & High Sugar Products (Bar Chart)", Mark: MarkBar,
			Category: "brand", Value: "count",
			CategoryTitle: "Brand", ValueTitle: "Number of High Calorie & High Sugar Products",
			Color: "count", Scheme: "reds",
			Transform: TransformGroupCount, Count: "count",
			TopN: &TopN{Label: topBrands, Min: 3, Default: 5},
		}},
		"5. Number of products marked as ultra-processed": {Display: DisplayMetric},
		"6. Products with sugar_to_carb_ratio > 0.7": {Chart: &ChartRule{
			Title: "🍬 Products with the Highest Sugar-to-Carb Ratio (Horizontal Bar Chart)", Mark: MarkHBar,
			Category: "product_name", Value: "sugar_to_carb_ratio",
			CategoryTitle: "Product", ValueTitle: "Sugar/Carb Ratio",
			Color: "sugar_to_carb_ratio", Scheme: "purples",
			Transform: TransformHead, TopN: productsSlider(),
		}},
		"7. Average sugar_to_carb_ratio per calorie_category": {Chart: &ChartRule{
			Title: "🍬 Average Sugar-to-Carb Ratio by Calorie Category (Bar Chart)", Mark: MarkBar,
			Category: "calorie_category", Value: "avg_ratio",
			CategoryTitle: "Calorie Category", ValueTitle: "Avg Sugar/Carb Ratio",
			Color: "avg_ratio", Scheme: "browns", Sort: SortNone,
		}},
	},
	catalog.Join: {
		"1. Top 5 brands with most High Calorie products": {Chart: &ChartRule{
			Title: "🏆 Top 5 Brands with Most High Calorie Products (Bar Chart)", Mark: MarkHBar,
			Category: "brand", Value: "high_calorie_count",
			CategoryTitle: "Brand", ValueTitle: "High Calorie Product Count",
			Color: "high_calorie_count", Scheme: "purplebluegreen",
		}},
		"2. Average energy_kcal_value per calorie_category": {Chart: &ChartRule{
			Title: "🍩 Average Energy per Calorie Category (Donut Chart)", Mark: MarkDonut,
			Category: "calorie_category", Value: "avg_energy",
			ColorTitle: "Calorie Category", InnerRadius: 50,
			Tooltip: []string{"calorie_category", "avg_energy"},
		}},
		"3. Count of ultra-processed products per brand": {Chart: &ChartRule{
			Title: "🏭 Ultra-Processed Products per Brand (Top N Selection)", Mark: MarkHBar,
			Category: "brand", Value: "ultra_count",
			CategoryTitle: "Brand", ValueTitle: "Ultra-Processed Product Count",
			Color: "ultra_count", Scheme: "redpurple",
			Tooltip:   []string{"brand", "ultra_count"},
			Transform: TransformNLargest, Rank: "ultra_count", TopN: brandsSlider(),
		}},
		"4. High Sugar & High Calorie products with brand": {Chart: &ChartRule{
			Title: "🍭 High Sugar & High Calorie Products by Brand (Scatter Plot)", Mark: MarkScatter,
			Category: "energy_kcal_value", Value: "sugars_value",
			CategoryTitle: "Energy (kcal)", ValueTitle: "Sugar (g)",
			Color: "brand", ColorTitle: "Brand",
			Tooltip: []string{"product_name", "brand", "energy_kcal_value", "sugars_value"},
			Zoom:    true,
		}},
		"5. Average sugar value per brand (Ultra-Processed Products)": {Chart: &ChartRule{
			Title: "🍬 Average Sugar Content per Brand (Top N selection)", Mark: MarkHBar,
			Category: "brand", Value: "avg_sugars",
			CategoryTitle: "Brand", ValueTitle: "Average Sugar (g)",
			Color: "avg_sugars", ColorTitle: "Average Sugar (g)", Scheme: "brownbluegreen",
			Tooltip:   []string{"brand", "avg_sugars"},
			Transform: TransformNLargest, Rank: "avg_sugars", TopN: brandsSlider(),
			Empty:     &Empty{Level: LevelWarning, Text: "No data available for ultra-processed products."},
		}},
		"6. Products with fruits/vegetables/nuts per calorie_category": {Chart: &ChartRule{
			Title: "🥗 Products with Fruits/Vegetables/Nuts by Calorie Category (Stacked Bar Chart)", Mark: MarkStacked,
			Category: "calorie_category", Value: "fv_nuts_count",
			CategoryTitle: "Calorie Category", ValueTitle: "Number of Products",
			Color: "Product Type", ColorTitle: "Product Type", Scheme: "greens",
			Tooltip:   []string{"calorie_category", "Product Type", "Count"},
			Transform: TransformMeltShare, Count: "Count", Other: "other_products",
		}},
		"7. Top 5 products by sugar_to_carb_ratio": {Chart: &ChartRule{
			Title: "🍭 Top 5 Products by Sugar-to-Carb Ratio (Donut Chart)", Mark: MarkDonut,
			Category: "product_name", Value: "sugar_to_carb_ratio",
			ColorTitle: "Product", InnerRadius: 90,
			Tooltip: []string{"product_name", "calorie_category", "sugar_category", "sugar_to_carb_ratio"},
		}},
	},
}

// RuleFor returns the rule for a catalog entry. Entries without a rule
// render as a table.
func RuleFor(domain, label string) Rule {
	return rules[domain][label]
}
