package expense

import (
	"errors"
	"time"
)

// ErrNotFound covers both a missing record and a record owned by someone
// else: callers must not be able to tell the two apart.
var ErrNotFound = errors.New("expense not found")

// Categories is the fixed set of allowed expense categories.
var Categories = []string{
	"Food",
	"Medical",
	"Transportation",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Other",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Expense struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a listing. Zero values mean "no constraint"; the filter
// is always intersected with ownership by the repository.
type Filter struct {
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

func (f Filter) Empty() bool {
	return f.Category == "" && f.StartDate.IsZero() && f.EndDate.IsZero()
}
