package handlers

// Tool describes one invokable operation and the shape of its input.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func toolDescriptors() []Tool {
	return []Tool{
		{
			Name:        "search_products",
			Description: "Search for products on MM (B2C or B2B platform). Note: Product names and descriptions are in Vietnamese.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"search_term": map[string]any{
						"type":        "string",
						"description": "Product search keyword in English or Vietnamese (e.g., 'rice'/'gạo', 'milk'/'sữa', 'coffee'/'cà phê')",
					},
					"platform": map[string]any{
						"type":        "string",
						"enum":        []string{"b2c", "b2b", "both"},
						"default":     "b2c",
						"description": "Platform to search: 'b2c' (consumer), 'b2b' (business), or 'both'",
					},
					"page": map[string]any{
						"type":        "integer",
						"default":     1,
						"description": "Page number for pagination",
					},
					"page_size": map[string]any{
						"type":        "integer",
						"default":     24,
						"description": "Number of results per page (max 50)",
					},
					"sort_by": map[string]any{
						"type":        "string",
						"enum":        []string{"relevance", "price_asc", "price_desc", "name_asc", "name_desc"},
						"default":     "relevance",
						"description": "Sort order for results",
					},
				},
				"required": []string{"search_term"},
			},
		},
		{
			Name:        "compare_prices",
			Description: "Compare prices between B2C (retail) and B2B (wholesale) platforms. Note: Product names are in Vietnamese.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"search_term": map[string]any{
						"type":        "string",
						"description": "Product search keyword in English or Vietnamese",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"default":     20,
						"description": "Maximum number of products to compare",
					},
				},
				"required": []string{"search_term"},
			},
		},
		{
			Name:        "list_stores",
			Description: "List all available MM store locations",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"region": map[string]any{
						"type":        "string",
						"enum":        []string{"north", "central", "south", "all"},
						"default":     "all",
						"description": "Filter stores by region",
					},
				},
			},
		},
		{
			Name:        "set_store",
			Description: "Set the active store location for searches",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"store_code": map[string]any{
						"type":        "string",
						"description": "Store code (e.g., '10010' for An Phú)",
					},
				},
				"required": []string{"store_code"},
			},
		},
		{
			Name:        "get_current_store",
			Description: "Get the currently active store location",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "authenticate_b2b",
			Description: "Authenticate with B2B platform (required for B2B account features)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"username": map[string]any{
						"type":        "string",
						"description": "B2B account email (optional if set in environment)",
					},
					"password": map[string]any{
						"type":        "string",
						"description": "B2B account password (optional if set in environment)",
					},
				},
			},
		},
		{
			Name:        "get_auth_status",
			Description: "Check B2B authentication status",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_product_details",
			Description: "Get detailed information about a specific product. Note: Product information is in Vietnamese.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sku": map[string]any{
						"type":        "string",
						"description": "Product SKU",
					},
					"platform": map[string]any{
						"type":        "string",
						"enum":        []string{"b2c", "b2b"},
						"default":     "b2c",
						"description": "Platform to query",
					},
				},
				"required": []string{"sku"},
			},
		},
	}
}
