package feeds

import (
	"slices"
	"strconv"

	"zroom/models"

	"github.com/samber/lo"
)

// Before reports whether a sorts before b in the feed: newest first, items
// before records at equal timestamps, then higher ids first.
func Before(a, b models.FeedEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.Type != b.Type {
		return a.Type == models.KindItem
	}
	return a.SourceId > b.SourceId
}

func compareEntries(a, b models.FeedEntry) int {
	switch {
	case Before(a, b):
		return -1
	case Before(b, a):
		return 1
	}
	return 0
}

func images(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

// nonEmpty treats a missing and an empty name alike
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func itemEntry(item models.Item, rooms map[int64]models.RoomInfo) models.FeedEntry {
	room := rooms[item.RoomId]
	sale := item.Sale
	price := strconv.FormatInt(item.Price, 10)

	return models.FeedEntry{
		Id:         strconv.FormatInt(item.Id, 10),
		Type:       models.KindItem,
		RoomId:     strconv.FormatInt(item.RoomId, 10),
		MemberId:   strconv.FormatInt(item.MemberId, 10),
		MemberName: nonEmpty(room.OwnerName),
		RoomName:   nonEmpty(room.RoomName),
		Images:     images(item.Images),
		CreatedAt:  item.CreatedAt,
		Name:       item.Name,
		Sale:       &sale,
		Price:      &price,
		BuyUrl:     item.BuyUrl,
		SourceId:   item.Id,
	}
}

func recordEntry(record models.Record, rooms map[int64]models.RoomInfo) models.FeedEntry {
	room := rooms[record.RoomId]

	return models.FeedEntry{
		Id:         strconv.FormatInt(record.Id, 10),
		Type:       models.KindRecord,
		RoomId:     strconv.FormatInt(record.RoomId, 10),
		MemberId:   strconv.FormatInt(record.MemberId, 10),
		MemberName: nonEmpty(room.OwnerName),
		RoomName:   nonEmpty(room.RoomName),
		Images:     images(record.Images),
		CreatedAt:  record.CreatedAt,
		Text:       record.Text,
		SourceId:   record.Id,
	}
}

// Merge maps both entry kinds to feed entries and sorts them into feed order
func Merge(batch *Batch) []models.FeedEntry {
	feed := make([]models.FeedEntry, 0, len(batch.Items)+len(batch.Records))
	feed = append(feed, lo.Map(batch.Items, func(item models.Item, _ int) models.FeedEntry {
		return itemEntry(item, batch.Rooms)
	})...)
	feed = append(feed, lo.Map(batch.Records, func(record models.Record, _ int) models.FeedEntry {
		return recordEntry(record, batch.Rooms)
	})...)

	slices.SortStableFunc(feed, compareEntries)
	return feed
}
