package core

// Category is static reference data used to classify receipts and transactions.
type Category struct {
	ID            string
	Name          string
	Icon          string
	Color         string
	Subcategories []string
}

var categories = []Category{
	{ID: "food", Name: "Food & Dining", Icon: "coffee", Color: "#F59E0B"},
	{ID: "transportation", Name: "Transportation", Icon: "truck", Color: "#3B82F6"},
	{ID: "shopping", Name: "Shopping", Icon: "shopping-bag", Color: "#EC4899"},
	{ID: "utilities", Name: "Utilities", Icon: "zap", Color: "#8B5CF6"},
	{ID: "healthcare", Name: "Healthcare", Icon: "heart", Color: "#EF4444"},
	{ID: "entertainment", Name: "Entertainment", Icon: "film", Color: "#10B981"},
	{ID: "travel", Name: "Travel", Icon: "map", Color: "#06B6D4"},
	{ID: "other", Name: "Other", Icon: "more-horizontal", Color: "#6B7280"},
}

// Categories returns a copy of the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category. Unknown ids report false; callers skip them.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
