package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"zroom/models"
	"zroom/query"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func (db *DB) RecentItems(ctx context.Context, q query.EntryQuery) ([]models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sql, args := ForQuery(models.KindItem, q).Build(q.Limit)
	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated items query")

	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.Id,
			&item.RoomId,
			&item.MemberId,
			&item.Name,
			&item.Price,
			&item.Sale,
			&item.BuyUrl,
			pq.Array(&item.Images),
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

func (db *DB) RecentRecords(ctx context.Context, q query.EntryQuery) ([]models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sql, args := ForQuery(models.KindRecord, q).Build(q.Limit)
	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated records query")

	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var record models.Record
		if err := rows.Scan(
			&record.Id,
			&record.RoomId,
			&record.MemberId,
			&record.Text,
			pq.Array(&record.Images),
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

func entryTimeQuery(roomIds []int64, cursor query.Cursor) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("created_at").From(entryTables[cursor.Kind])
	sb.Where(sb.Equal("id", cursor.Id))
	(&RoomFilter{RoomIds: roomIds}).ApplyFilter(sb)
	return sb.Build()
}

// EntryTime returns the creation time of the entry a cursor names, as long as
// it still lives in one of the given rooms. ok is false when it does not.
func (db *DB) EntryTime(ctx context.Context, roomIds []int64, cursor query.Cursor) (time.Time, bool, error) {
	if _, known := entryTables[cursor.Kind]; !known {
		return time.Time{}, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q, args := entryTimeQuery(roomIds, cursor)

	var createdAt time.Time
	err := db.db.QueryRowContext(ctx, q, args...).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query error: %w", err)
	}
	return createdAt, true, nil
}
