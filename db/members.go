package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zroom/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// MemberByUid looks up the member behind a session subject. It returns nil
// without an error when no member exists.
func (db *DB) MemberByUid(ctx context.Context, uid string) (*models.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "uid", "name", "email").From("members").Where(sb.Equal("uid", uid))
	q, args := sb.Build()

	var member models.Member
	err := db.db.QueryRowContext(ctx, q, args...).Scan(&member.Id, &member.Uid, &member.Name, &member.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &member, nil
}
