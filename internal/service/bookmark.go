package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// BookmarkService keeps each user's list of marked topics.
type BookmarkService struct {
	repo   repository.BookmarkRepository
	logger *slog.Logger
}

func NewBookmarkService(repo repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, logger: logger}
}

func (s *BookmarkService) Add(ctx context.Context, userID, topicID int64) error {
	if err := requireID("topic_id", topicID); err != nil {
		return err
	}
	if err := s.repo.AddBookmark(ctx, model.Bookmark{UserID: userID, TopicID: topicID}); err != nil {
		return fmt.Errorf("adding bookmark: %w", err)
	}
	return nil
}

func (s *BookmarkService) Remove(ctx context.Context, userID, topicID int64) error {
	if err := requireID("topic_id", topicID); err != nil {
		return err
	}
	if err := s.repo.RemoveBookmark(ctx, model.Bookmark{UserID: userID, TopicID: topicID}); err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	return nil
}

func (s *BookmarkService) List(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	list, err := s.repo.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	return list, nil
}
