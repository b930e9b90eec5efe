package sqldb

import (
	"context"
	"fmt"

	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.StatsRepository = (*DB)(nil)

// Stats counts posts, users and topics in one round trip.
func (db *DB) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := db.queryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM posts),
		       (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM topics)`,
	).Scan(&s.PostsCount, &s.UsersCount, &s.TopicsCount)
	if err != nil {
		return nil, fmt.Errorf("sqldb: counting stats: %w", err)
	}
	return &s, nil
}
