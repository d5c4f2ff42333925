package feeds

import (
	"strconv"
	"strings"

	"zroom/models"
	"zroom/query"
)

const cursorSeparator = ":"

// FormatCursor encodes a cursor as "<kind>:<id>", e.g. "item:42"
func FormatCursor(c query.Cursor) string {
	return string(c.Kind) + cursorSeparator + strconv.FormatInt(c.Id, 10)
}

// CursorOf returns the cursor that resumes after the given entry
func CursorOf(entry models.FeedEntry) query.Cursor {
	return query.Cursor{Kind: entry.Type, Id: entry.SourceId}
}

// ParseCursor decodes a cursor token. ok is false for empty or malformed
// tokens, which callers treat as "start from the top".
func ParseCursor(token string) (query.Cursor, bool) {
	kind, id, found := strings.Cut(token, cursorSeparator)
	if !found {
		return query.Cursor{}, false
	}

	switch models.EntryKind(kind) {
	case models.KindItem, models.KindRecord:
	default:
		return query.Cursor{}, false
	}

	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil || parsed < 1 {
		return query.Cursor{}, false
	}

	return query.Cursor{Kind: models.EntryKind(kind), Id: parsed}, true
}
