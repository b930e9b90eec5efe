package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.TopicRepository = (*DB)(nil)

// topicSelect joins everything a topic is displayed with. The post count is
// a correlated subquery so no GROUP BY is needed on either dialect.
const topicSelect = `
	SELECT t.id, t.name, t.created_at,
	       c.id, c.name,
	       u.id, u.login,
	       (SELECT COUNT(*) FROM posts p WHERE p.topic_id = t.id)
	FROM topics t
	JOIN categories c ON c.id = t.category_id
	JOIN users u ON u.id = t.author_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(s rowScanner) (model.Topic, error) {
	var t model.Topic
	err := s.Scan(
		&t.ID, &t.Name, &t.CreatedAt,
		&t.Category.ID, &t.Category.Name,
		&t.Creator.ID, &t.Creator.Login,
		&t.PostsCount,
	)
	return t, err
}

func (db *DB) CreateTopic(ctx context.Context, authorID, categoryID int64, name string) (int64, error) {
	id, err := db.insertID(ctx,
		`INSERT INTO topics (author_id, category_id, name, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		authorID, categoryID, name, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.ValidationFailed("category_id", "category does not exist")
		}
		return 0, fmt.Errorf("sqldb: inserting topic: %w", err)
	}
	return id, nil
}

func (db *DB) GetTopic(ctx context.Context, id int64) (*model.Topic, error) {
	t, err := scanTopic(db.queryRow(ctx, topicSelect+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("topic", id)
		}
		return nil, fmt.Errorf("sqldb: getting topic %d: %w", id, err)
	}
	return &t, nil
}

func (db *DB) TopicAuthor(ctx context.Context, id int64) (int64, error) {
	var authorID int64
	err := db.queryRow(ctx, `SELECT author_id FROM topics WHERE id = ?`, id).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NotFound("topic", id)
		}
		return 0, fmt.Errorf("sqldb: getting topic author %d: %w", id, err)
	}
	return authorID, nil
}

// ListTopics returns topics newest first.
func (db *DB) ListTopics(ctx context.Context, opts repository.ListOptions) ([]model.Topic, error) {
	opts = opts.Normalized()
	return db.listTopics(ctx, topicSelect+` ORDER BY t.id DESC LIMIT ? OFFSET ?`, opts.Limit, opts.Offset)
}

func (db *DB) UpdateTopic(ctx context.Context, id int64, patch model.TopicPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.CategoryID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	found, err := db.execAffecting(ctx, `UPDATE topics SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("category_id", "category does not exist")
		}
		return fmt.Errorf("sqldb: updating topic %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("topic", id)
	}
	return nil
}

// DeleteTopic removes the topic; its posts, their reactions and any bookmarks
// go with it (ON DELETE CASCADE).
func (db *DB) DeleteTopic(ctx context.Context, id int64) error {
	found, err := db.execAffecting(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqldb: deleting topic %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("topic", id)
	}
	return nil
}

// SearchTopics finds topics whose name, category, creator login or any post
// text contains query, ignoring case. Newest first.
func (db *DB) SearchTopics(ctx context.Context, query string, limit int) ([]model.Topic, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	limit = repository.NewListOptions(limit, 0).Limit

	// Both sides are lowered with Unicode rules; see sqliteUnicodeLower.
	where := fmt.Sprintf(`
	WHERE %[1]s(t.name) LIKE ? ESCAPE '\'
	   OR %[1]s(c.name) LIKE ? ESCAPE '\'
	   OR %[1]s(u.login) LIKE ? ESCAPE '\'
	   OR EXISTS (SELECT 1 FROM posts p WHERE p.topic_id = t.id AND %[1]s(p.text) LIKE ? ESCAPE '\')
	ORDER BY t.id DESC
	LIMIT ?`, db.dialect.lower)

	return db.listTopics(ctx, topicSelect+where,
		pattern, pattern, pattern, pattern, limit,
	)
}

func (db *DB) listTopics(ctx context.Context, query string, args ...any) ([]model.Topic, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("sqldb: scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating topics: %w", err)
	}
	return topics, nil
}

// escapeLike makes %, _ and \ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
