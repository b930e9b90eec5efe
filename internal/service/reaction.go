package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// ReactionService manages the reaction palette and the reactions users put
// on posts.
type ReactionService struct {
	repo   repository.ReactionRepository
	logger *slog.Logger
}

func NewReactionService(repo repository.ReactionRepository, logger *slog.Logger) *ReactionService {
	return &ReactionService{repo: repo, logger: logger}
}

// =========================================================================
// PALETTE
// =========================================================================

func (s *ReactionService) CreateAvailable(ctx context.Context, reaction string) (int64, error) {
	reaction, err := cleanText("reaction", reaction, MaxReactionLength)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateAvailableReaction(ctx, reaction)
	if err != nil {
		return 0, fmt.Errorf("creating available reaction: %w", err)
	}

	s.logger.Info("available reaction created", slog.Int64("id", id))
	return id, nil
}

func (s *ReactionService) ListAvailable(ctx context.Context) ([]model.AvailableReaction, error) {
	list, err := s.repo.ListAvailableReactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing available reactions: %w", err)
	}
	return list, nil
}

func (s *ReactionService) UpdateAvailable(ctx context.Context, id int64, reaction string) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	reaction, err := cleanText("reaction", reaction, MaxReactionLength)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateAvailableReaction(ctx, id, reaction); err != nil {
		return fmt.Errorf("updating available reaction %d: %w", id, err)
	}
	return nil
}

// DeleteAvailable removes a palette entry together with every use of it.
func (s *ReactionService) DeleteAvailable(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}

	if err := s.repo.DeleteAvailableReaction(ctx, id); err != nil {
		return fmt.Errorf("deleting available reaction %d: %w", id, err)
	}

	s.logger.Info("available reaction deleted", slog.Int64("id", id))
	return nil
}

// =========================================================================
// REACTIONS ON POSTS
// =========================================================================

// React puts reactionID on postID on behalf of authorID. Setting the same
// reaction twice is apperror.ErrConflict.
func (s *ReactionService) React(ctx context.Context, authorID, postID, reactionID int64) error {
	if err := requireID("post_id", postID); err != nil {
		return err
	}
	if err := requireID("reaction_id", reactionID); err != nil {
		return err
	}

	r := model.Reaction{PostID: postID, AuthorID: authorID, ReactionID: reactionID}
	if err := s.repo.AddReaction(ctx, r); err != nil {
		return fmt.Errorf("adding reaction: %w", err)
	}
	return nil
}

func (s *ReactionService) Unreact(ctx context.Context, authorID, postID, reactionID int64) error {
	if err := requireID("post_id", postID); err != nil {
		return err
	}
	if err := requireID("reaction_id", reactionID); err != nil {
		return err
	}

	r := model.Reaction{PostID: postID, AuthorID: authorID, ReactionID: reactionID}
	if err := s.repo.RemoveReaction(ctx, r); err != nil {
		return fmt.Errorf("removing reaction: %w", err)
	}
	return nil
}

func (s *ReactionService) ListForPost(ctx context.Context, postID int64) ([]model.Reaction, error) {
	if err := requireID("post_id", postID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListReactions(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing reactions of post %d: %w", postID, err)
	}
	return list, nil
}
