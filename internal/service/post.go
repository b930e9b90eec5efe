package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// PostService handles the messages inside topics.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger
}

func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

func (s *PostService) Create(ctx context.Context, authorID, topicID int64, text string) (int64, error) {
	if err := requireID("topic_id", topicID); err != nil {
		return 0, err
	}
	text, err := cleanText("text", text, MaxPostTextLength)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreatePost(ctx, topicID, authorID, text)
	if err != nil {
		return 0, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("id", id),
		slog.Int64("topic_id", topicID),
		slog.Int64("author_id", authorID),
	)
	return id, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.repo.GetPost(ctx, id)
}

// List returns the posts of a topic, oldest first.
func (s *PostService) List(ctx context.Context, topicID int64, limit, offset int) ([]model.Post, error) {
	if err := requireID("topic_id", topicID); err != nil {
		return nil, err
	}

	posts, err := s.repo.ListPosts(ctx, topicID, repository.NewListOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing posts of topic %d: %w", topicID, err)
	}
	return posts, nil
}

// UpdateText replaces the body of a post. Only its sender may edit it.
func (s *PostService) UpdateText(ctx context.Context, callerID, id int64, text string) error {
	text, err := cleanText("text", text, MaxPostTextLength)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.UpdatePostText(ctx, id, text); err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}

	s.logger.Info("post updated", slog.Int64("id", id))
	return nil
}

func (s *PostService) Delete(ctx context.Context, callerID, id int64) error {
	if err := s.authorize(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	s.logger.Info("post deleted", slog.Int64("id", id), slog.Int64("by", callerID))
	return nil
}

func (s *PostService) authorize(ctx context.Context, callerID, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.Sender.ID != callerID {
		return apperror.Forbidden("only the author can change this post")
	}
	return nil
}
