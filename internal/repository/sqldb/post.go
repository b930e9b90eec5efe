package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

const postSelect = `
	SELECT p.id, p.topic_id, p.text, p.created_at, u.id, u.login
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(s rowScanner) (model.Post, error) {
	var p model.Post
	err := s.Scan(&p.ID, &p.TopicID, &p.Text, &p.CreatedAt, &p.Sender.ID, &p.Sender.Login)
	return p, err
}

func (db *DB) CreatePost(ctx context.Context, topicID, authorID int64, text string) (int64, error) {
	id, err := db.insertID(ctx,
		`INSERT INTO posts (topic_id, author_id, text, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		topicID, authorID, text, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.ValidationFailed("topic_id", "topic does not exist")
		}
		return 0, fmt.Errorf("sqldb: inserting post: %w", err)
	}
	return id, nil
}

func (db *DB) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	p, err := scanPost(db.queryRow(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqldb: getting post %d: %w", id, err)
	}
	return &p, nil
}

// ListPosts returns a topic's posts oldest first, the order they are read in.
func (db *DB) ListPosts(ctx context.Context, topicID int64, opts repository.ListOptions) ([]model.Post, error) {
	opts = opts.Normalized()

	rows, err := db.query(ctx, postSelect+` WHERE p.topic_id = ? ORDER BY p.id LIMIT ? OFFSET ?`, topicID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing posts of topic %d: %w", topicID, err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqldb: scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating posts: %w", err)
	}
	return posts, nil
}

func (db *DB) UpdatePostText(ctx context.Context, id int64, text string) error {
	found, err := db.execAffecting(ctx, `UPDATE posts SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("sqldb: updating post %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("post", id)
	}
	return nil
}

func (db *DB) DeletePost(ctx context.Context, id int64) error {
	found, err := db.execAffecting(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqldb: deleting post %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("post", id)
	}
	return nil
}
