package db

import (
	"zroom/models"
	"zroom/query"

	"github.com/huandu/go-sqlbuilder"
)

var entryColumns = map[models.EntryKind][]string{
	models.KindItem:   {"id", "room_id", "member_id", "name", "price", "sale", "buy_url", "images", "created_at"},
	models.KindRecord: {"id", "room_id", "member_id", "text", "images", "created_at"},
}

var entryTables = map[models.EntryKind]string{
	models.KindItem:   "items",
	models.KindRecord: "records",
}

// EntryQueryBuilder builds the recency-ordered window query for one entry kind
type EntryQueryBuilder struct {
	kind    models.EntryKind
	filters []query.FilterStrategy
}

func NewEntryQueryBuilder(kind models.EntryKind) *EntryQueryBuilder {
	return &EntryQueryBuilder{
		kind:    kind,
		filters: make([]query.FilterStrategy, 0),
	}
}

func (b *EntryQueryBuilder) AddFilter(filter query.FilterStrategy) {
	b.filters = append(b.filters, filter)
}

// ForQuery returns a builder with the room and position filters of q applied
func ForQuery(kind models.EntryKind, q query.EntryQuery) *EntryQueryBuilder {
	b := NewEntryQueryBuilder(kind)
	b.AddFilter(&RoomFilter{RoomIds: q.RoomIds})
	if q.From != nil {
		b.AddFilter(&PositionFilter{Kind: kind, From: *q.From})
	}
	return b
}

func (b *EntryQueryBuilder) Build(limit int) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(entryColumns[b.kind]...).From(entryTables[b.kind])

	for _, filter := range b.filters {
		filter.ApplyFilter(sb)
	}

	// Ties on created_at resolve to the newest id, matching the in-memory order
	sb.OrderBy("created_at DESC", "id DESC")
	sb.Limit(limit)

	return sb.Build()
}
