package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// =========================================================================
// POST TESTS
// =========================================================================

func TestPosts_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "thread")

	first := createTestPost(t, db, topicID, alice, "first")
	createTestPost(t, db, topicID, alice, "second")

	posts, err := db.ListPosts(ctx, topicID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 2 || posts[0].Text != "first" || posts[1].Text != "second" {
		t.Fatalf("ListPosts() = %+v, want oldest first", posts)
	}
	if posts[0].Sender != (model.UserRef{ID: alice, Login: "alice"}) {
		t.Errorf("Sender = %+v", posts[0].Sender)
	}

	if err := db.UpdatePostText(ctx, first, "edited"); err != nil {
		t.Fatalf("UpdatePostText() error = %v", err)
	}
	p, _ := db.GetPost(ctx, first)
	if p.Text != "edited" || p.TopicID != topicID {
		t.Errorf("GetPost() = %+v", p)
	}

	if err := db.DeletePost(ctx, first); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if err := db.DeletePost(ctx, first); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeletePost() error = %v, want ErrNotFound", err)
	}
	if err := db.UpdatePostText(ctx, first, "x"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdatePostText(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreatePost_UnknownTopic(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")

	_, err := db.CreatePost(context.Background(), 404, alice, "lost")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("CreatePost() error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// REACTION TESTS
// =========================================================================

func TestReactions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "thread")
	postID := createTestPost(t, db, topicID, alice, "hello")

	thumbs, err := db.CreateAvailableReaction(ctx, "👍")
	if err != nil {
		t.Fatalf("CreateAvailableReaction() error = %v", err)
	}
	if _, err := db.CreateAvailableReaction(ctx, "👍"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate CreateAvailableReaction() error = %v, want ErrConflict", err)
	}

	r := model.Reaction{PostID: postID, AuthorID: bob, ReactionID: thumbs}
	if err := db.AddReaction(ctx, r); err != nil {
		t.Fatalf("AddReaction() error = %v", err)
	}
	if err := db.AddReaction(ctx, r); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate AddReaction() error = %v, want ErrConflict", err)
	}
	bad := model.Reaction{PostID: postID, AuthorID: bob, ReactionID: 999}
	if err := db.AddReaction(ctx, bad); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddReaction(unknown reaction) error = %v, want ErrValidation", err)
	}

	list, err := db.ListReactions(ctx, postID)
	if err != nil {
		t.Fatalf("ListReactions() error = %v", err)
	}
	if len(list) != 1 || list[0].AuthorID != bob || list[0].Reaction != "👍" {
		t.Errorf("ListReactions() = %+v", list)
	}

	if err := db.RemoveReaction(ctx, r); err != nil {
		t.Fatalf("RemoveReaction() error = %v", err)
	}
	if err := db.RemoveReaction(ctx, r); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second RemoveReaction() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAvailableReaction_RemovesUses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "thread")
	postID := createTestPost(t, db, topicID, alice, "hello")
	heart, _ := db.CreateAvailableReaction(ctx, "❤")
	_ = db.AddReaction(ctx, model.Reaction{PostID: postID, AuthorID: alice, ReactionID: heart})

	if err := db.UpdateAvailableReaction(ctx, heart, "<3"); err != nil {
		t.Fatalf("UpdateAvailableReaction() error = %v", err)
	}
	if err := db.DeleteAvailableReaction(ctx, heart); err != nil {
		t.Fatalf("DeleteAvailableReaction() error = %v", err)
	}

	list, _ := db.ListReactions(ctx, postID)
	if len(list) != 0 {
		t.Errorf("reactions survived palette deletion: %+v", list)
	}
	if err := db.DeleteAvailableReaction(ctx, heart); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteAvailableReaction() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// BOOKMARK TESTS
// =========================================================================

func TestBookmarks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "thread")
	b := model.Bookmark{UserID: alice, TopicID: topicID}

	if err := db.AddBookmark(ctx, b); err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}
	if err := db.AddBookmark(ctx, b); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate AddBookmark() error = %v, want ErrConflict", err)
	}
	if err := db.AddBookmark(ctx, model.Bookmark{UserID: alice, TopicID: 404}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddBookmark(unknown topic) error = %v, want ErrValidation", err)
	}

	list, err := db.ListBookmarks(ctx, alice)
	if err != nil {
		t.Fatalf("ListBookmarks() error = %v", err)
	}
	if len(list) != 1 || list[0].TopicID != topicID {
		t.Errorf("ListBookmarks() = %+v", list)
	}

	if err := db.RemoveBookmark(ctx, b); err != nil {
		t.Fatalf("RemoveBookmark() error = %v", err)
	}
	if err := db.RemoveBookmark(ctx, b); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second RemoveBookmark() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// REPORT & STATS TESTS
// =========================================================================

func TestReports(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	troll := createTestUser(t, db, "troll")

	id, err := db.CreateReport(ctx, alice, troll, "spam")
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	if _, err := db.CreateReport(ctx, alice, 999, "ghost"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateReport(unknown user) error = %v, want ErrValidation", err)
	}

	r, err := db.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if r.AuthorID != alice || r.ReportedUser.Login != "troll" || r.Reason != "spam" {
		t.Errorf("GetReport() = %+v", r)
	}

	list, err := db.ListReports(ctx, repository.ListOptions{})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListReports() = %+v, %v", list, err)
	}
	if _, err := db.GetReport(ctx, 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetReport(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if *s != (model.Stats{}) {
		t.Errorf("empty Stats() = %+v", s)
	}

	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "thread")
	createTestPost(t, db, topicID, alice, "a")
	createTestPost(t, db, topicID, alice, "b")
	createTestPost(t, db, topicID, alice, "c")

	s, _ = db.Stats(ctx)
	if *s != (model.Stats{PostsCount: 3, UsersCount: 2, TopicsCount: 1}) {
		t.Errorf("Stats() = %+v", s)
	}
}
