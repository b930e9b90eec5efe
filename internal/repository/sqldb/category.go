package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

var _ repository.CategoryRepository = (*DB)(nil)

func (db *DB) CreateCategory(ctx context.Context, name string) (int64, error) {
	id, err := db.insertID(ctx, `INSERT INTO categories (name) VALUES (?) RETURNING id`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("category with this name already exists")
		}
		return 0, fmt.Errorf("sqldb: inserting category: %w", err)
	}
	return id, nil
}

func (db *DB) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := db.queryRow(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqldb: getting category %d: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqldb: scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating categories: %w", err)
	}
	return categories, nil
}
