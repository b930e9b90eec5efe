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

var _ repository.ReportRepository = (*DB)(nil)

const reportSelect = `
	SELECT r.id, r.author_id, u.id, u.login, r.reason, r.created_at
	FROM reports r
	JOIN users u ON u.id = r.reported_user_id`

func scanReport(s rowScanner) (model.Report, error) {
	var r model.Report
	err := s.Scan(&r.ID, &r.AuthorID, &r.ReportedUser.ID, &r.ReportedUser.Login, &r.Reason, &r.CreatedAt)
	return r, err
}

func (db *DB) CreateReport(ctx context.Context, authorID, reportedUserID int64, reason string) (int64, error) {
	id, err := db.insertID(ctx,
		`INSERT INTO reports (author_id, reported_user_id, reason, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		authorID, reportedUserID, reason, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.ValidationFailed("reported_user_id", "reported user does not exist")
		}
		return 0, fmt.Errorf("sqldb: inserting report: %w", err)
	}
	return id, nil
}

func (db *DB) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	r, err := scanReport(db.queryRow(ctx, reportSelect+` WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("report", id)
		}
		return nil, fmt.Errorf("sqldb: getting report %d: %w", id, err)
	}
	return &r, nil
}

// ListReports returns reports newest first.
func (db *DB) ListReports(ctx context.Context, opts repository.ListOptions) ([]model.Report, error) {
	opts = opts.Normalized()

	rows, err := db.query(ctx, reportSelect+` ORDER BY r.id DESC LIMIT ? OFFSET ?`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing reports: %w", err)
	}
	defer rows.Close()

	out := []model.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("sqldb: scanning report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating reports: %w", err)
	}
	return out, nil
}
