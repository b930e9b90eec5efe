package sqldb

import (
	"context"
	"fmt"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.BookmarkRepository = (*DB)(nil)

func (db *DB) AddBookmark(ctx context.Context, b model.Bookmark) error {
	_, err := db.exec(ctx, `INSERT INTO bookmarks (user_id, topic_id) VALUES (?, ?)`, b.UserID, b.TopicID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.Conflict("topic already bookmarked")
		case isForeignKeyViolation(err):
			return apperror.ValidationFailed("topic_id", "topic does not exist")
		}
		return fmt.Errorf("sqldb: inserting bookmark: %w", err)
	}
	return nil
}

func (db *DB) RemoveBookmark(ctx context.Context, b model.Bookmark) error {
	found, err := db.execAffecting(ctx, `DELETE FROM bookmarks WHERE user_id = ? AND topic_id = ?`, b.UserID, b.TopicID)
	if err != nil {
		return fmt.Errorf("sqldb: deleting bookmark: %w", err)
	}
	if !found {
		return apperror.NotFoundMessage("bookmark not found")
	}
	return nil
}

func (db *DB) ListBookmarks(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	rows, err := db.query(ctx, `SELECT user_id, topic_id FROM bookmarks WHERE user_id = ? ORDER BY topic_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing bookmarks of user %d: %w", userID, err)
	}
	defer rows.Close()

	out := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.UserID, &b.TopicID); err != nil {
			return nil, fmt.Errorf("sqldb: scanning bookmark: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating bookmarks: %w", err)
	}
	return out, nil
}
