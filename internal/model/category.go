package model

import "strings"

// Category is one of the fixed suggestion labels. It selects the prompt
// template and the storage key of a selection set.
type Category string

const (
	CategoryTasks    Category = "tasks"
	CategorySkills   Category = "skills"
	CategoryBenefits Category = "benefits"
)

// Categories lists every valid category in priority order.
var Categories = []Category{CategoryTasks, CategorySkills, CategoryBenefits}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryTasks, CategorySkills, CategoryBenefits:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a case-insensitive label onto a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &InvalidCategoryError{Value: s}
	}
	return c, nil
}
