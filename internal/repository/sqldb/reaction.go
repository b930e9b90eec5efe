package sqldb

import (
	"context"
	"fmt"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.ReactionRepository = (*DB)(nil)

// =========================================================================
// AVAILABLE REACTIONS (the palette)
// =========================================================================

func (db *DB) CreateAvailableReaction(ctx context.Context, reaction string) (int64, error) {
	id, err := db.insertID(ctx, `INSERT INTO available_reactions (reaction) VALUES (?) RETURNING id`, reaction)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("reaction already exists")
		}
		return 0, fmt.Errorf("sqldb: inserting available reaction: %w", err)
	}
	return id, nil
}

func (db *DB) ListAvailableReactions(ctx context.Context) ([]model.AvailableReaction, error) {
	rows, err := db.query(ctx, `SELECT id, reaction FROM available_reactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing available reactions: %w", err)
	}
	defer rows.Close()

	out := []model.AvailableReaction{}
	for rows.Next() {
		var r model.AvailableReaction
		if err := rows.Scan(&r.ID, &r.Reaction); err != nil {
			return nil, fmt.Errorf("sqldb: scanning available reaction: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating available reactions: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateAvailableReaction(ctx context.Context, id int64, reaction string) error {
	found, err := db.execAffecting(ctx, `UPDATE available_reactions SET reaction = ? WHERE id = ?`, reaction, id)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("reaction already exists")
		}
		return fmt.Errorf("sqldb: updating available reaction %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("reaction", id)
	}
	return nil
}

// DeleteAvailableReaction also removes every use of it on posts.
func (db *DB) DeleteAvailableReaction(ctx context.Context, id int64) error {
	found, err := db.execAffecting(ctx, `DELETE FROM available_reactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqldb: deleting available reaction %d: %w", id, err)
	}
	if !found {
		return apperror.NotFound("reaction", id)
	}
	return nil
}

// =========================================================================
// REACTIONS ON POSTS
// =========================================================================

func (db *DB) AddReaction(ctx context.Context, r model.Reaction) error {
	_, err := db.exec(ctx,
		`INSERT INTO reactions (post_id, author_id, reaction_id) VALUES (?, ?, ?)`,
		r.PostID, r.AuthorID, r.ReactionID,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.Conflict("you already set this reaction")
		case isForeignKeyViolation(err):
			return apperror.ValidationFailed("reaction_id", "post or reaction does not exist")
		}
		return fmt.Errorf("sqldb: inserting reaction: %w", err)
	}
	return nil
}

func (db *DB) RemoveReaction(ctx context.Context, r model.Reaction) error {
	found, err := db.execAffecting(ctx,
		`DELETE FROM reactions WHERE post_id = ? AND author_id = ? AND reaction_id = ?`,
		r.PostID, r.AuthorID, r.ReactionID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: deleting reaction: %w", err)
	}
	if !found {
		return apperror.NotFoundMessage("you did not set this reaction")
	}
	return nil
}

func (db *DB) ListReactions(ctx context.Context, postID int64) ([]model.Reaction, error) {
	rows, err := db.query(ctx, `
		SELECT r.post_id, r.author_id, a.id, a.reaction
		FROM reactions r
		JOIN available_reactions a ON a.id = r.reaction_id
		WHERE r.post_id = ?
		ORDER BY a.id, r.author_id`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing reactions of post %d: %w", postID, err)
	}
	defer rows.Close()

	out := []model.Reaction{}
	for rows.Next() {
		var r model.Reaction
		if err := rows.Scan(&r.PostID, &r.AuthorID, &r.ReactionID, &r.Reaction); err != nil {
			return nil, fmt.Errorf("sqldb: scanning reaction: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating reactions: %w", err)
	}
	return out, nil
}
