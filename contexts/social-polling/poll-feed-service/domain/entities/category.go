package entities

// Category is a selectable poll category.
type Category struct {
	ID          string
	Label       string
	Description string
}

// CategoryGroup groups categories for the write form and feed filter.
type CategoryGroup struct {
	ID       string
	Label    string
	Children []Category
}

// DefaultCategoryGroups is the static category catalogue. The feed filter is
// not restricted to it; unknown category ids simply match nothing.
func DefaultCategoryGroups() []CategoryGroup {
	return []CategoryGroup{
		{
			ID:    "shopping",
			Label: "Shopping",
			Children: []Category{
				{ID: "electronics", Label: "Electronics"},
				{ID: "fashion", Label: "Fashion"},
				{ID: "home-living", Label: "Home & Living"},
			},
		},
		{
			ID:    "lifestyle",
			Label: "Lifestyle",
			Children: []Category{
				{ID: "food-drink", Label: "Food & Drink"},
				{ID: "travel", Label: "Travel"},
				{ID: "pets", Label: "Pets"},
				{ID: "health-fitness", Label: "Health & Fitness"},
			},
		},
		{
			ID:    "culture",
			Label: "Culture",
			Children: []Category{
				{ID: "entertainment", Label: "Entertainment"},
				{ID: "sports", Label: "Sports"},
				{ID: "gaming", Label: "Gaming"},
			},
		},
		{
			ID:    "general",
			Label: "General",
			Children: []Category{
				{ID: "work-career", Label: "Work & Career"},
				{ID: "relationships", Label: "Relationships"},
				{ID: "misc", Label: "Everything Else"},
			},
		},
	}
}
