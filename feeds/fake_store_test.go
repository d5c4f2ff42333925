package feeds_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"zroom/db"
	"zroom/models"
	"zroom/query"
)

var errStore = errors.New("connection reset")

type fakeRoom struct {
	id       int64
	owner    int64
	category string
	locked   bool
	name     string
}

// fakeStore keeps rooms and entries in memory and answers queries with the
// same ordering and position rules as the SQL store
type fakeStore struct {
	mu sync.Mutex

	members       []models.Member
	rooms         []fakeRoom
	registrations map[int64][]int64 // member id -> room ids
	items         []models.Item
	records       []models.Record

	failItems   bool
	failRecords bool
	failRooms   bool

	itemQueries []query.EntryQuery
}

func newFakeStore() *fakeStore {
	return &fakeStore{registrations: map[int64][]int64{}}
}

func (s *fakeStore) MemberByUid(_ context.Context, uid string) (*models.Member, error) {
	for _, m := range s.members {
		if m.Uid == uid {
			member := m
			return &member, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) PublicRoomIds(_ context.Context, category string) ([]int64, error) {
	if s.failRooms {
		return nil, errStore
	}
	ids := []int64{}
	for _, r := range s.rooms {
		if r.category == category && !r.locked {
			ids = append(ids, r.id)
		}
	}
	return ids, nil
}

func (s *fakeStore) KeyedRoomIds(_ context.Context, memberId int64, category string) ([]int64, error) {
	ids := []int64{}
	for _, id := range s.registrations[memberId] {
		for _, r := range s.rooms {
			if r.id == id && r.category == category {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (s *fakeStore) LockedOwnedRoomIds(_ context.Context, memberId int64, category string) ([]int64, error) {
	ids := []int64{}
	for _, r := range s.rooms {
		if r.owner == memberId && r.category == category && r.locked {
			ids = append(ids, r.id)
		}
	}
	return ids, nil
}

func (s *fakeStore) RoomDirectory(_ context.Context, roomIds []int64) (map[int64]models.RoomInfo, error) {
	directory := map[int64]models.RoomInfo{}
	for _, r := range s.rooms {
		if !slices.Contains(roomIds, r.id) {
			continue
		}
		roomName := r.name
		info := models.RoomInfo{RoomName: &roomName}
		for _, m := range s.members {
			if m.Id == r.owner {
				info.OwnerName = m.Name
			}
		}
		directory[r.id] = info
	}
	return directory, nil
}

// inWindow applies the same position filter the SQL store builds its WHERE
// clause from
func inWindow(kind models.EntryKind, createdAt time.Time, id int64, from *query.Position) bool {
	if from == nil {
		return true
	}
	return (&db.PositionFilter{Kind: kind, From: *from}).Includes(createdAt, id)
}

func newestFirst(aAt, bAt time.Time, aId, bId int64) int {
	if !aAt.Equal(bAt) {
		if aAt.After(bAt) {
			return -1
		}
		return 1
	}
	switch {
	case aId > bId:
		return -1
	case aId < bId:
		return 1
	}
	return 0
}

func (s *fakeStore) RecentItems(_ context.Context, q query.EntryQuery) ([]models.Item, error) {
	s.mu.Lock()
	s.itemQueries = append(s.itemQueries, q)
	s.mu.Unlock()

	if s.failItems {
		return nil, errStore
	}
	items := []models.Item{}
	for _, item := range s.items {
		if slices.Contains(q.RoomIds, item.RoomId) && inWindow(models.KindItem, item.CreatedAt, item.Id, q.From) {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b models.Item) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.Id, b.Id)
	})
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (s *fakeStore) RecentRecords(_ context.Context, q query.EntryQuery) ([]models.Record, error) {
	if s.failRecords {
		return nil, errStore
	}
	records := []models.Record{}
	for _, record := range s.records {
		if slices.Contains(q.RoomIds, record.RoomId) && inWindow(models.KindRecord, record.CreatedAt, record.Id, q.From) {
			records = append(records, record)
		}
	}
	slices.SortFunc(records, func(a, b models.Record) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.Id, b.Id)
	})
	if len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

func (s *fakeStore) EntryTime(_ context.Context, roomIds []int64, cursor query.Cursor) (time.Time, bool, error) {
	switch cursor.Kind {
	case models.KindItem:
		for _, item := range s.items {
			if item.Id == cursor.Id && slices.Contains(roomIds, item.RoomId) {
				return item.CreatedAt, true, nil
			}
		}
	case models.KindRecord:
		for _, record := range s.records {
			if record.Id == cursor.Id && slices.Contains(roomIds, record.RoomId) {
				return record.CreatedAt, true, nil
			}
		}
	}
	return time.Time{}, false, nil
}

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func (s *fakeStore) addMember(id int64, uid, name string) {
	s.members = append(s.members, models.Member{Id: id, Uid: uid, Name: &name})
}

func (s *fakeStore) addRoom(id, owner int64, category string, locked bool) {
	s.rooms = append(s.rooms, fakeRoom{id: id, owner: owner, category: category, locked: locked, name: "room"})
}

// addItem stores an item created minutesAgo minutes before base
func (s *fakeStore) addItem(id, roomId int64, minutesAgo int) {
	name := "item"
	s.items = append(s.items, models.Item{
		Id:        id,
		RoomId:    roomId,
		MemberId:  1,
		Name:      &name,
		Price:     1000 + id,
		CreatedAt: base.Add(-time.Duration(minutesAgo) * time.Minute),
	})
}

func (s *fakeStore) addRecord(id, roomId int64, minutesAgo int) {
	text := "record"
	s.records = append(s.records, models.Record{
		Id:        id,
		RoomId:    roomId,
		MemberId:  1,
		Text:      &text,
		CreatedAt: base.Add(-time.Duration(minutesAgo) * time.Minute),
	})
}
