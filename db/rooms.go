package db

import (
	"context"
	"fmt"

	"zroom/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

func publicRoomsQuery(category string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id").From("rooms")
	sb.Where(
		sb.Equal("category", category),
		sb.Equal("is_locked", false),
	)
	sb.OrderBy("id").Asc()
	return sb.Build()
}

func keyedRoomsQuery(memberId int64, category string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("DISTINCT rooms.id").From("room_key_registrations")
	sb.Join("room_keys", "room_keys.id = room_key_registrations.room_key_id")
	sb.Join("rooms", "rooms.id = room_keys.room_id")
	sb.Where(
		sb.Equal("room_key_registrations.member_id", memberId),
		sb.Equal("rooms.category", category),
	)
	sb.OrderBy("rooms.id").Asc()
	return sb.Build()
}

func lockedOwnedRoomsQuery(memberId int64, category string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id").From("rooms")
	sb.Where(
		sb.Equal("member_id", memberId),
		sb.Equal("category", category),
		sb.Equal("is_locked", true),
	)
	sb.OrderBy("id").Asc()
	return sb.Build()
}

func roomDirectoryQuery(roomIds []int64) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("rooms.id", "rooms.name", "members.name").From("rooms")
	sb.Join("members", "members.id = rooms.member_id")
	sb.Where(fmt.Sprintf("rooms.id = ANY(%s)", sb.Args.Add(pq.Array(roomIds))))
	return sb.Build()
}

// PublicRoomIds returns the unlocked rooms of a category
func (db *DB) PublicRoomIds(ctx context.Context, category string) ([]int64, error) {
	sql, args := publicRoomsQuery(category)
	return db.queryIds(ctx, sql, args)
}

// KeyedRoomIds returns the rooms of a category a member holds a registered key for
func (db *DB) KeyedRoomIds(ctx context.Context, memberId int64, category string) ([]int64, error) {
	sql, args := keyedRoomsQuery(memberId, category)
	return db.queryIds(ctx, sql, args)
}

// LockedOwnedRoomIds returns the locked rooms of a category owned by a member
func (db *DB) LockedOwnedRoomIds(ctx context.Context, memberId int64, category string) ([]int64, error) {
	sql, args := lockedOwnedRoomsQuery(memberId, category)
	return db.queryIds(ctx, sql, args)
}

func (db *DB) queryIds(ctx context.Context, sql string, args []interface{}) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return scanIds(rows)
}

// RoomDirectory returns room and owner names keyed by room id
func (db *DB) RoomDirectory(ctx context.Context, roomIds []int64) (map[int64]models.RoomInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sql, args := roomDirectoryQuery(roomIds)
	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	directory := make(map[int64]models.RoomInfo, len(roomIds))
	for rows.Next() {
		var id int64
		var info models.RoomInfo
		if err := rows.Scan(&id, &info.RoomName, &info.OwnerName); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		directory[id] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return directory, nil
}
