package feeds

import (
	"context"
	"fmt"
	"time"

	"zroom/models"
	"zroom/query"

	"golang.org/x/sync/errgroup"
)

// Window selects how many rows of each kind are read per page
type Window string

const (
	// WindowKeyset reads limit+1 rows of each kind starting at the cursor
	// position, which always contains the next page.
	WindowKeyset Window = "keyset"

	// WindowHead reads the newest 2*limit rows of each kind regardless of the
	// cursor and paginates inside that window. Pages past the window are lost.
	WindowHead Window = "head"
)

func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowKeyset, "":
		return WindowKeyset, nil
	case WindowHead:
		return WindowHead, nil
	}
	return "", fmt.Errorf("unknown feed window %q", s)
}

// Batch is the raw material for one feed page
type Batch struct {
	Items   []models.Item
	Records []models.Record
	Rooms   map[int64]models.RoomInfo
}

// Fetcher reads items, records and room names for a room set concurrently
type Fetcher struct {
	entries EntryStore
	rooms   RoomStore
	window  Window
}

func NewFetcher(entries EntryStore, rooms RoomStore, window Window) *Fetcher {
	return &Fetcher{entries: entries, rooms: rooms, window: window}
}

func (f *Fetcher) entryQuery(roomIds []int64, limit int, from *query.Position) query.EntryQuery {
	if f.window == WindowHead {
		return query.EntryQuery{RoomIds: roomIds, Limit: 2 * limit}
	}
	return query.EntryQuery{RoomIds: roomIds, Limit: limit + 1, From: from}
}

// Fetch runs the three reads in parallel and fails if any of them fails
func (f *Fetcher) Fetch(ctx context.Context, roomIds []int64, limit int, from *query.Position) (*Batch, error) {
	start := time.Now()
	defer func() {
		fetchDuration.WithLabelValues(string(f.window)).Observe(time.Since(start).Seconds())
	}()

	q := f.entryQuery(roomIds, limit, from)
	batch := &Batch{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := f.entries.RecentItems(ctx, q)
		if err != nil {
			return fmt.Errorf("items: %w", err)
		}
		batch.Items = items
		return nil
	})

	g.Go(func() error {
		records, err := f.entries.RecentRecords(ctx, q)
		if err != nil {
			return fmt.Errorf("records: %w", err)
		}
		batch.Records = records
		return nil
	})

	g.Go(func() error {
		rooms, err := f.rooms.RoomDirectory(ctx, roomIds)
		if err != nil {
			return fmt.Errorf("room directory: %w", err)
		}
		batch.Rooms = rooms
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}
