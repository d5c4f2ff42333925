package db

import (
	"context"
	"fmt"

	"zroom/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

func topSavesQuery(limit int) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "member_id", "data", "rank_score", "rank_character_id", "updated_at").From("game_saves")
	sb.OrderBy("rank_score DESC", "updated_at ASC")
	sb.Limit(limit)
	return sb.Build()
}

// TopGameSaves returns the saves with the highest stored rank score
func (db *DB) TopGameSaves(ctx context.Context, limit int) ([]models.GameSave, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sql, args := topSavesQuery(limit)
	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	saves := []models.GameSave{}
	for rows.Next() {
		var save models.GameSave
		if err := rows.Scan(
			&save.Id,
			&save.MemberId,
			&save.Data,
			&save.RankScore,
			&save.RankCharacterId,
			&save.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		saves = append(saves, save)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return saves, nil
}
