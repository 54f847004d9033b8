package models

import (
	"fmt"
	"time"
)

// ExpenseCategory is the closed set of expense categories.
type ExpenseCategory string

const (
	CategoryEquipment ExpenseCategory = "equipment"
	CategoryTravel    ExpenseCategory = "travel"
	CategoryTraining  ExpenseCategory = "training"
	CategoryRental    ExpenseCategory = "rental"
	CategoryOther     ExpenseCategory = "other"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryEquipment,
	CategoryTravel,
	CategoryTraining,
	CategoryRental,
	CategoryOther,
}

var categoryLabels = map[ExpenseCategory]string{
	CategoryEquipment: "Equipment",
	CategoryTravel:    "Travel",
	CategoryTraining:  "Training",
	CategoryRental:    "Rental",
	CategoryOther:     "Other",
}

// legacyCategories maps the identifiers stored by the first release.
var legacyCategories = map[string]ExpenseCategory{
	"equipement":  CategoryEquipment,
	"deplacement": CategoryTravel,
	"formation":   CategoryTraining,
	"location":    CategoryRental,
	"autre":       CategoryOther,
}

// Label returns the human-readable category name. Unknown categories are
// shown as-is.
func (c ExpenseCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of ExpenseCategories.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseExpenseCategory accepts current and legacy category identifiers.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	if c := ExpenseCategory(s); c.Valid() {
		return c, nil
	}
	if c, ok := legacyCategories[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown expense category %q", s)
}

// Expense is a dated business expense with an optional receipt photo.
type Expense struct {
	ID          string          `json:"id" firestore:"-"`
	AccountID   string          `json:"account_id" firestore:"accountId"`
	Date        time.Time       `json:"date" firestore:"date"`
	Description string          `json:"description" firestore:"description"`
	Amount      float64         `json:"amount" firestore:"amount"`
	Category    ExpenseCategory `json:"category" firestore:"category"`

	// Photo holds the receipt image inline. Empty means no receipt.
	Photo     []byte `json:"photo,omitempty" firestore:"photo"`
	PhotoType string `json:"photo_type,omitempty" firestore:"photoType"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// HasPhoto reports whether a receipt is attached.
func (e *Expense) HasPhoto() bool {
	return len(e.Photo) > 0
}
