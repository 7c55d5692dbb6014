package catalog

const (
	// LabelCodePrefix3 is the one entry rendered as a word cloud.
	LabelCodePrefix3 = "6. Products with code starting with '3'"
)

var productQueries = []Query{
	{
		Label: "1. Count products per brand",
		Statement: `
            SELECT brand, COUNT(product_name) AS total_products
            FROM product_info
            WHERE brand IS NOT NULL
            GROUP BY brand
            ORDER BY total_products DESC;
        `,
	},
	{
		Label: "2. Count unique products per brand",
		Statement: `
            SELECT brand, COUNT(DISTINCT product_name) AS unique_products
            FROM product_info
            WHERE brand IS NOT NULL
            GROUP BY brand
            ORDER BY unique_products DESC;
        `,
	},
	{
		Label: "3. Top 5 brands by product count",
		Statement: `
            SELECT brand, COUNT(product_name) AS total_products
            FROM product_info
            WHERE brand IS NOT NULL
            GROUP BY brand
            ORDER BY total_products DESC
            LIMIT 5;
        `,
	},
	{
		Label: "4. Products with missing product name",
		Statement: `
            SELECT brand, COUNT(*) AS missing_names
            FROM product_info
            WHERE product_name IS NULL
            GROUP BY brand
            ORDER BY missing_names DESC;
        `,
	},
	{
		Label: "5. Number of unique brands",
		Statement: `
            SELECT COUNT(DISTINCT brand) AS unique_brands
            FROM product_info
            WHERE brand IS NOT NULL;
        `,
	},
	{
		Label: LabelCodePrefix3,
		Statement: `
            SELECT product_name
            FROM product_info
            WHERE CAST(product_code AS CHAR) LIKE '3%'
            AND product_name IS NOT NULL
            AND TRIM(product_name) != '';
        `,
		Variant: `
        SELECT product_code, product_name
        FROM product_info
        WHERE product_code LIKE '3%'
        AND product_name IS NOT NULL
        AND TRIM(product_name) != ''
        `,
	},
}

var nutrientQueries = []Query{
	{
		Label: "1. Top 10 products with highest energy_kcal_value",
		Statement: `
            SELECT p.product_name, n.energy_kcal_value, p.brand
            FROM product_info p
            JOIN nutrient_info n ON p.product_code=n.product_code
            ORDER BY n.energy_kcal_value DESC
            LIMIT 10;
        `,
	},
	{
		Label: "2. Average sugars_value per nova_group",
		Statement: `
            SELECT nova_group, AVG(sugars_value) AS avg_sugar
            FROM nutrient_info
            WHERE nova_group IS NOT NULL AND TRIM(nova_group) != ''
            GROUP BY nova_group
            ORDER BY nova_group;
        `,
	},
	{
		Label: "3. Count products with fat_value > 20g",
		Statement: `
            SELECT COUNT(*) AS fat_count
            FROM nutrient_info
            WHERE fat_value > 20
            `,
	},
	{
		// Backtick-quoted aliases cannot live in a raw string literal.
		Label: "4. Average carbohydrates_value per product",
		Statement: "\n" +
			"            SELECT p.product_name AS `Product Name`,\n" +
			"            AVG(n.carbohydrates_value) AS `Average Carbs Value`\n" +
			"            FROM product_info p\n" +
			"            JOIN nutrient_info n ON n.product_code = p.product_code\n" +
			"            GROUP BY p.product_name\n" +
			"            ORDER BY `Average Carbs Value` DESC;\n" +
			"            ",
	},
	{
		Label: "5. Products with sodium_value > 1g",
		Statement: `
            SELECT p.product_name, n.sodium_value
            FROM product_info p
            JOIN nutrient_info n ON p.product_code = n.product_code
            WHERE n.sodium_value > 1;
        `,
	},
	{
		Label: "6. Count products with non-zero fruits-vegetables-nuts content",
		Statement: `
            SELECT COUNT(*) AS products_with_fv_nuts
            FROM nutrient_info
            WHERE fruits_veg_nuts_pct > 0
        `,
	},
	{
		Label: "7. Products with energy_kcal_value > 500",
		Statement: `
            SELECT p.product_name, n.energy_kcal_value
            FROM product_info p
            JOIN nutrient_info n ON p.product_code = n.product_code
            WHERE n.energy_kcal_value > 500
            ORDER BY energy_kcal_value DESC;
        `,
	},
}

var derivedQueries = []Query{
	{
		Label: "1. Count products per calorie_category",
		Statement: `
            SELECT calorie_category, COUNT(*) AS product_count
            FROM derived_metrics
            GROUP BY calorie_category
            ORDER BY product_count DESC;
        `,
	},
	{
		Label: "2. Count of High Sugar products",
		Statement: `
            SELECT COUNT(*) AS high_sugar_count
            FROM derived_metrics
            WHERE sugar_category='High Sugar';
        `,
	},
	{
		Label: "3. Average sugar_to_carb_ratio for High Calorie products",
		Statement: `
            SELECT AVG(sugar_to_carb_ratio) AS avg_ratio
            FROM derived_metrics
            WHERE calorie_category='High Calorie';
        `,
	},
	{
		Label: "4. Products that are both High Calorie and High Sugar",
		Statement: `
            SELECT p.product_name, p.brand, d.calorie_category, d.sugar_category
            FROM derived_metrics d
            JOIN product_info p ON d.product_code=p.product_code
            WHERE d.calorie_category='High Calorie' AND d.sugar_category='High Sugar';
        `,
	},
	{
		Label: "5. Number of products marked as ultra-processed",
		Statement: `
            SELECT COUNT(*) AS ultra_processed_count
            FROM derived_metrics
            WHERE is_ultra_processed='Yes';
        `,
	},
	{
		Label: "6. Products with sugar_to_carb_ratio > 0.7",
		Statement: `
            SELECT p.product_name, p.brand, d.sugar_to_carb_ratio
            FROM derived_metrics d
            JOIN product_info p ON d.product_code=p.product_code
            WHERE d.sugar_to_carb_ratio > 0.7
            ORDER BY d.sugar_to_carb_ratio DESC;
        `,
	},
	{
		Label: "7. Average sugar_to_carb_ratio per calorie_category",
		Statement: `
            SELECT calorie_category, AVG(sugar_to_carb_ratio) AS avg_ratio
            FROM derived_metrics
            GROUP BY calorie_category;
        `,
	},
}

var joinQueries = []Query{
	{
		Label: "1. Top 5 brands with most High Calorie products",
		Statement: `
            SELECT p.brand, COUNT(*) AS high_calorie_count
            FROM derived_metrics d
            JOIN product_info p ON d.product_code = p.product_code
            WHERE d.calorie_category='High Calorie'
            GROUP BY p.brand
            ORDER BY high_calorie_count DESC
            LIMIT 5;
        `,
	},
	{
		Label: "2. Average energy_kcal_value per calorie_category",
		Statement: `
            SELECT d.calorie_category, AVG(n.energy_kcal_value) AS avg_energy
            FROM derived_metrics d
            JOIN nutrient_info n ON d.product_code = n.product_code
            GROUP BY d.calorie_category;
        `,
	},
	{
		Label: "3. Count of ultra-processed products per brand",
		Statement: `
            SELECT p.brand, COUNT(*) AS ultra_count
            FROM derived_metrics d
            JOIN product_info p ON d.product_code = p.product_code
            WHERE d.is_ultra_processed='Yes'
            GROUP BY p.brand
            ORDER BY ultra_count DESC;
        `,
	},
	{
		Label: "4. High Sugar & High Calorie products with brand",
		Statement: `
            SELECT p.product_name, p.brand, n.energy_kcal_value, n.sugars_value
            FROM derived_metrics d
            JOIN product_info p ON d.product_code = p.product_code
            JOIN nutrient_info n ON d.product_code = n.product_code
            WHERE d.calorie_category='High Calorie' AND d.sugar_category='High Sugar';
        `,
	},
	{
		Label: "5. Average sugar value per brand (Ultra-Processed Products)",
		Statement: `
            SELECT p.brand, AVG(n.sugars_value) AS avg_sugars
            FROM derived_metrics d
            JOIN product_info p ON d.product_code = p.product_code
            JOIN nutrient_info n ON d.product_code = n.product_code
            WHERE d.is_ultra_processed='Yes'
            GROUP BY p.brand;
        `,
	},
	{
		Label: "6. Products with fruits/vegetables/nuts per calorie_category",
		Statement: `
            SELECT d.calorie_category, COUNT(*) AS fv_nuts_count
            FROM derived_metrics d
            JOIN nutrient_info n ON d.product_code = n.product_code
            WHERE n.fruits_veg_nuts_pct > 0
            GROUP BY d.calorie_category;
        `,
	},
	{
		Label: "7. Top 5 products by sugar_to_carb_ratio",
		Statement: `
            SELECT p.product_name, d.calorie_category, d.sugar_category, d.sugar_to_carb_ratio
            FROM derived_metrics d
            JOIN product_info p ON d.product_code = p.product_code
            ORDER BY d.sugar_to_carb_ratio DESC
            LIMIT 5;
        `,
	},
}
