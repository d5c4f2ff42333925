// Package feeds builds the merged item and record feed of a room category
package feeds

import (
	"context"
	"errors"
	"fmt"

	"zroom/models"
	"zroom/query"

	log "github.com/sirupsen/logrus"
)

const DefaultLimit = 20

// Request holds the parameters of one feed page
type Request struct {
	Category string
	Cursor   string
	Limit    int
	KeyFeed  bool

	// Identity is nil for anonymous callers
	Identity *Identity
}

// Service answers feed page requests. It holds no state between pages.
type Service struct {
	resolver *Resolver
	fetcher  *Fetcher
	entries  EntryStore
	window   Window
}

func NewService(store Store, window Window) *Service {
	return &Service{
		resolver: NewResolver(store, store),
		fetcher:  NewFetcher(store, store, window),
		entries:  store,
		window:   window,
	}
}

func emptyFeed() *models.FeedResponse {
	return &models.FeedResponse{Items: []models.FeedEntry{}}
}

// Feed returns one page of the merged feed
func (s *Service) Feed(ctx context.Context, req Request) (resp *models.FeedResponse, err error) {
	defer func() {
		feedRequests.WithLabelValues(modeLabel(req.KeyFeed), outcome(err)).Inc()
		if resp != nil {
			feedPageSize.Observe(float64(len(resp.Items)))
		}
	}()

	if req.Category == "" {
		return nil, fmt.Errorf("category is required: %w", ErrBadRequest)
	}

	limit := req.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	roomIds, err := s.resolver.Resolve(ctx, req.Category, req.KeyFeed, req.Identity)
	if err != nil {
		return nil, err
	}
	if len(roomIds) == 0 {
		return emptyFeed(), nil
	}

	from, err := s.position(ctx, roomIds, req.Cursor)
	if err != nil {
		return nil, err
	}

	batch, err := s.fetcher.Fetch(ctx, roomIds, limit, from)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	cursor := req.Cursor
	if s.window == WindowKeyset && from == nil {
		// The cursor did not resolve, the window starts at the top
		cursor = ""
	}

	resp = Paginate(Merge(batch), cursor, limit)

	log.WithFields(log.Fields{
		"category": req.Category,
		"keyFeed":  req.KeyFeed,
		"rooms":    len(roomIds),
		"items":    len(batch.Items),
		"records":  len(batch.Records),
		"page":     len(resp.Items),
		"more":     resp.NextCursor != nil,
	}).Debug("Built feed page")

	return resp, nil
}

// position resolves the cursor against the visible rooms. A cursor that is
// malformed, or names an entry that no longer exists in those rooms, yields
// nil so the feed starts over.
func (s *Service) position(ctx context.Context, roomIds []int64, token string) (*query.Position, error) {
	if s.window != WindowKeyset || token == "" {
		return nil, nil
	}

	cursor, ok := ParseCursor(token)
	if !ok {
		log.WithField("cursor", token).Debug("Ignoring malformed cursor")
		return nil, nil
	}

	createdAt, found, err := s.entries.EntryTime(ctx, roomIds, cursor)
	if err != nil {
		return nil, fmt.Errorf("resolve cursor: %w", err)
	}
	if !found {
		log.WithField("cursor", token).Debug("Ignoring stale cursor")
		return nil, nil
	}

	return &query.Position{Cursor: cursor, CreatedAt: createdAt}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrMemberNotFound):
		return "not_found"
	}
	return "internal"
}
