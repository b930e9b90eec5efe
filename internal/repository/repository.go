// Package repository declares the storage interfaces the service layer
// depends on. The SQL implementation lives in repository/sqldb; service tests
// use hand-written in-memory fakes.
//
// ERROR CONTRACT (all implementations):
//   - missing row             → apperror.ErrNotFound
//   - UNIQUE violation        → apperror.ErrConflict
//   - FOREIGN KEY violation   → apperror.ErrValidation
//   - anything else           → a wrapped driver error (surfaces as 500)
package repository

import (
	"context"

	"github.com/sakif/forum-backend/internal/model"
)

// Page size bounds for every list query.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListOptions pages a list query. Build it with NewListOptions; the zero
// value means the first page of DefaultListLimit rows.
type ListOptions struct {
	Limit  int
	Offset int
}

// NewListOptions clamps limit to 1..MaxListLimit (0 or less means the
// default) and offset to >= 0.
func NewListOptions(limit, offset int) ListOptions {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return ListOptions{Limit: limit, Offset: offset}
}

// Normalized returns o with the NewListOptions bounds applied.
func (o ListOptions) Normalized() ListOptions {
	return NewListOptions(o.Limit, o.Offset)
}

// UserRepository stores accounts and their credential digests.
type UserRepository interface {
	// FindCredentialByLogin returns the user with its PasswordDigest set.
	FindCredentialByLogin(ctx context.Context, login string) (*model.User, error)
	// InsertCredential creates the account and returns its id. A login that
	// is already taken yields apperror.ErrConflict, even under a race.
	InsertCredential(ctx context.Context, login string, digest []byte) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type TopicRepository interface {
	CreateTopic(ctx context.Context, authorID, categoryID int64, name string) (int64, error)
	GetTopic(ctx context.Context, id int64) (*model.Topic, error)
	// TopicAuthor returns only the author id, for ownership checks.
	TopicAuthor(ctx context.Context, id int64) (int64, error)
	ListTopics(ctx context.Context, opts ListOptions) ([]model.Topic, error)
	UpdateTopic(ctx context.Context, id int64, patch model.TopicPatch) error
	DeleteTopic(ctx context.Context, id int64) error
	// SearchTopics matches query against topic names, category names,
	// creator logins and post text, case-insensitively.
	SearchTopics(ctx context.Context, query string, limit int) ([]model.Topic, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, topicID, authorID int64, text string) (int64, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context, topicID int64, opts ListOptions) ([]model.Post, error)
	UpdatePostText(ctx context.Context, id int64, text string) error
	DeletePost(ctx context.Context, id int64) error
}

type ReactionRepository interface {
	CreateAvailableReaction(ctx context.Context, reaction string) (int64, error)
	ListAvailableReactions(ctx context.Context) ([]model.AvailableReaction, error)
	UpdateAvailableReaction(ctx context.Context, id int64, reaction string) error
	DeleteAvailableReaction(ctx context.Context, id int64) error

	AddReaction(ctx context.Context, r model.Reaction) error
	RemoveReaction(ctx context.Context, r model.Reaction) error
	ListReactions(ctx context.Context, postID int64) ([]model.Reaction, error)
}

type BookmarkRepository interface {
	AddBookmark(ctx context.Context, b model.Bookmark) error
	RemoveBookmark(ctx context.Context, b model.Bookmark) error
	ListBookmarks(ctx context.Context, userID int64) ([]model.Bookmark, error)
}

type ReportRepository interface {
	CreateReport(ctx context.Context, authorID, reportedUserID int64, reason string) (int64, error)
	GetReport(ctx context.Context, id int64) (*model.Report, error)
	ListReports(ctx context.Context, opts ListOptions) ([]model.Report, error)
}

type StatsRepository interface {
	Stats(ctx context.Context) (*model.Stats, error)
}
