package saving

import (
	"errors"
	"time"
)

// ErrNotFound covers both a missing record and a record owned by someone
// else: callers must not be able to tell the two apart.
var ErrNotFound = errors.New("saving not found")

type Saving struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a listing by inclusive date range. Zero values mean "no
// constraint"; ownership is always applied by the repository.
type Filter struct {
	StartDate time.Time
	EndDate   time.Time
}

func (f Filter) Empty() bool {
	return f.StartDate.IsZero() && f.EndDate.IsZero()
}
