package expense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}

	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("food")) // case-sensitive
	assert.False(t, ValidCategory("Gambling"))
}

func TestValidate(t *testing.T) {
	valid := &Expense{
		UserID:   1,
		Date:     time.Now(),
		Amount:   10,
		Category: "Food",
	}
	assert.NoError(t, validate(valid))

	tests := []struct {
		name   string
		mutate func(e *Expense)
	}{
		{"Missing owner", func(e *Expense) { e.UserID = 0 }},
		{"Missing date", func(e *Expense) { e.Date = time.Time{} }},
		{"Zero amount", func(e *Expense) { e.Amount = 0 }},
		{"Negative amount", func(e *Expense) { e.Amount = -1 }},
		{"Bad category", func(e *Expense) { e.Category = "Misc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := *valid
			tt.mutate(&e)
			assert.Error(t, validate(&e))
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	assert.True(t, Filter{}.Empty())
	assert.False(t, Filter{Category: "Food"}.Empty())
	assert.False(t, Filter{StartDate: time.Now()}.Empty())
}
