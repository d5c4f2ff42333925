package feeds

import (
	"slices"

	"zroom/models"
)

// Paginate returns the page of up to limit entries that follows the entry
// named by cursor. An empty, malformed or unknown cursor starts at the top.
// The next cursor is set only when the page is full.
func Paginate(feed []models.FeedEntry, cursor string, limit int) *models.FeedResponse {
	start := 0
	if c, ok := ParseCursor(cursor); ok {
		idx := slices.IndexFunc(feed, func(e models.FeedEntry) bool {
			return e.Type == c.Kind && e.SourceId == c.Id
		})
		if idx != -1 {
			start = idx + 1
		}
	}

	end := min(start+limit, len(feed))
	page := []models.FeedEntry{}
	if start < end {
		page = feed[start:end]
	}

	var nextCursor *string

	// Only set cursor if the page is full, more entries may follow
	if limit > 0 && len(page) == limit {
		next := FormatCursor(CursorOf(page[len(page)-1]))
		nextCursor = &next
	}

	return &models.FeedResponse{
		Items:      page,
		NextCursor: nextCursor,
	}
}
