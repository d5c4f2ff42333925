package feeds

import (
	"context"
	"time"

	"zroom/models"
	"zroom/query"
)

// MemberStore resolves session subjects to members
type MemberStore interface {
	// MemberByUid returns nil without an error when no member exists
	MemberByUid(ctx context.Context, uid string) (*models.Member, error)
}

// RoomStore answers room visibility questions
type RoomStore interface {
	PublicRoomIds(ctx context.Context, category string) ([]int64, error)
	KeyedRoomIds(ctx context.Context, memberId int64, category string) ([]int64, error)
	LockedOwnedRoomIds(ctx context.Context, memberId int64, category string) ([]int64, error)
	RoomDirectory(ctx context.Context, roomIds []int64) (map[int64]models.RoomInfo, error)
}

// EntryStore reads recency-ordered windows of items and records
type EntryStore interface {
	RecentItems(ctx context.Context, q query.EntryQuery) ([]models.Item, error)
	RecentRecords(ctx context.Context, q query.EntryQuery) ([]models.Record, error)
	EntryTime(ctx context.Context, roomIds []int64, cursor query.Cursor) (time.Time, bool, error)
}

type Store interface {
	MemberStore
	RoomStore
	EntryStore
}
