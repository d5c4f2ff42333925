package db

import (
	"fmt"
	"time"

	"zroom/models"
	"zroom/query"

	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

// RoomFilter limits entries to a set of rooms
type RoomFilter struct {
	RoomIds []int64
}

func (f *RoomFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	sb.Where(fmt.Sprintf("room_id = ANY(%s)", sb.Args.Add(pq.Array(f.RoomIds))))
}

// PositionFilter keeps entries at or after a feed position in recency order.
// At equal timestamps items sort before records, so a record window relative
// to an item position includes the whole timestamp and an item window relative
// to a record position excludes it.
type PositionFilter struct {
	Kind models.EntryKind
	From query.Position
}

type positionRule int

const (
	// same kind: older, or same timestamp and id at or below the cursor
	ruleSameKind positionRule = iota
	// records after an item: the cursor timestamp and older
	ruleThroughTimestamp
	// items after a record: strictly older than the cursor timestamp
	ruleBeforeTimestamp
)

func (f *PositionFilter) rule() positionRule {
	switch {
	case f.Kind == f.From.Cursor.Kind:
		return ruleSameKind
	case f.From.Cursor.Kind == models.KindItem:
		return ruleThroughTimestamp
	}
	return ruleBeforeTimestamp
}

func (f *PositionFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	at := f.From.CreatedAt

	switch f.rule() {
	case ruleSameKind:
		sb.Where(sb.Or(
			sb.LessThan("created_at", at),
			sb.And(
				sb.Equal("created_at", at),
				sb.LessEqualThan("id", f.From.Cursor.Id),
			),
		))
	case ruleThroughTimestamp:
		sb.Where(sb.LessEqualThan("created_at", at))
	default:
		sb.Where(sb.LessThan("created_at", at))
	}
}

// Includes reports whether a row of the filter's kind passes the filter
func (f *PositionFilter) Includes(createdAt time.Time, id int64) bool {
	at := f.From.CreatedAt

	switch f.rule() {
	case ruleSameKind:
		return createdAt.Before(at) || (createdAt.Equal(at) && id <= f.From.Cursor.Id)
	case ruleThroughTimestamp:
		return !createdAt.After(at)
	}
	return createdAt.Before(at)
}

var _ query.FilterStrategy = (*RoomFilter)(nil)
var _ query.FilterStrategy = (*PositionFilter)(nil)
