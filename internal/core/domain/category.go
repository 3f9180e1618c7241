package domain

// Category groups expenses within a family. Names are unique per family.
type Category struct {
	CategoryID  string `json:"categoryID"` // Primary key (UUID)
	FamilyID    string `json:"familyID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"` // Hex color code, e.g. "#3B82F6"
	Icon        string `json:"icon"`
	AuditFields
}

// DefaultCategoryColor is applied when a category is created without one.
const DefaultCategoryColor = "#3B82F6"
