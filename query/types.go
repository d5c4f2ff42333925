package query

import (
	"time"

	"github.com/huandu/go-sqlbuilder"

	"zroom/models"
)

// Cursor identifies the last feed entry a client has seen
type Cursor struct {
	Kind models.EntryKind
	Id   int64
}

// Position is a cursor resolved against storage
type Position struct {
	Cursor    Cursor
	CreatedAt time.Time
}

// EntryQuery describes one per-kind window of recent entries
type EntryQuery struct {
	RoomIds []int64
	Limit   int

	// From, when set, starts the window at this position (inclusive)
	From *Position
}

// FilterStrategy adds WHERE conditions to the query
type FilterStrategy interface {
	// ApplyFilter adds filter conditions to the query builder
	ApplyFilter(sb *sqlbuilder.SelectBuilder)
}
