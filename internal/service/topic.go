package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// TopicService handles topics and topic search.
type TopicService struct {
	repo   repository.TopicRepository
	logger *slog.Logger
}

func NewTopicService(repo repository.TopicRepository, logger *slog.Logger) *TopicService {
	return &TopicService{repo: repo, logger: logger}
}

// Create opens a topic in categoryID on behalf of authorID. The author comes
// from the verified token, never from the request body.
func (s *TopicService) Create(ctx context.Context, authorID, categoryID int64, name string) (int64, error) {
	if err := requireID("category_id", categoryID); err != nil {
		return 0, err
	}
	name, err := cleanText("name", name, MaxTopicNameLength)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateTopic(ctx, authorID, categoryID, name)
	if err != nil {
		return 0, fmt.Errorf("creating topic: %w", err)
	}

	s.logger.Info("topic created",
		slog.Int64("id", id),
		slog.Int64("author_id", authorID),
		slog.Int64("category_id", categoryID),
	)
	return id, nil
}

func (s *TopicService) Get(ctx context.Context, id int64) (*model.Topic, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.repo.GetTopic(ctx, id)
}

// List returns topics newest first. limit is clamped to 1..repository.MaxListLimit.
func (s *TopicService) List(ctx context.Context, limit, offset int) ([]model.Topic, error) {
	topics, err := s.repo.ListTopics(ctx, repository.NewListOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

// Update applies patch to the topic. Only its author may change it.
func (s *TopicService) Update(ctx context.Context, callerID, id int64, patch model.TopicPatch) error {
	if patch.Name != nil {
		name, err := cleanText("name", *patch.Name, MaxTopicNameLength)
		if err != nil {
			return err
		}
		patch.Name = &name
	}
	if patch.CategoryID != nil {
		if err := requireID("category_id", *patch.CategoryID); err != nil {
			return err
		}
	}

	if err := s.authorize(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.UpdateTopic(ctx, id, patch); err != nil {
		return fmt.Errorf("updating topic %d: %w", id, err)
	}

	s.logger.Info("topic updated", slog.Int64("id", id))
	return nil
}

// Delete removes the topic with its posts, reactions and bookmarks. Only its
// author may delete it.
func (s *TopicService) Delete(ctx context.Context, callerID, id int64) error {
	if err := s.authorize(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.DeleteTopic(ctx, id); err != nil {
		return fmt.Errorf("deleting topic %d: %w", id, err)
	}

	s.logger.Info("topic deleted", slog.Int64("id", id), slog.Int64("by", callerID))
	return nil
}

// Search finds topics whose name, category, creator login or any post text
// contains query, ignoring case.
func (s *TopicService) Search(ctx context.Context, query string) ([]model.Topic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.ValidationFailed("query", "query is required")
	}

	topics, err := s.repo.SearchTopics(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("searching topics: %w", err)
	}
	return topics, nil
}

func (s *TopicService) authorize(ctx context.Context, callerID, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	author, err := s.repo.TopicAuthor(ctx, id)
	if err != nil {
		return err
	}
	if author != callerID {
		return apperror.Forbidden("only the author can change this topic")
	}
	return nil
}
