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
// CATEGORY TESTS
// =========================================================================

func TestCategories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	general := createTestCategory(t, db, "General")
	createTestCategory(t, db, "Off-topic")

	if _, err := db.CreateCategory(ctx, "General"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate CreateCategory() error = %v, want ErrConflict", err)
	}

	c, err := db.GetCategory(ctx, general)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if c.Name != "General" {
		t.Errorf("Name = %q, want General", c.Name)
	}

	list, err := db.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "General" || list[1].Name != "Off-topic" {
		t.Errorf("ListCategories() = %+v", list)
	}

	if _, err := db.GetCategory(ctx, 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetCategory(missing) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// TOPIC TESTS
// =========================================================================

func TestGetTopic_JoinsDisplayFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "Hello world")
	createTestPost(t, db, topicID, alice, "first")
	createTestPost(t, db, topicID, bob, "second")

	topic, err := db.GetTopic(ctx, topicID)
	if err != nil {
		t.Fatalf("GetTopic() error = %v", err)
	}

	if topic.Name != "Hello world" {
		t.Errorf("Name = %q", topic.Name)
	}
	if topic.Category != (model.Category{ID: cat, Name: "General"}) {
		t.Errorf("Category = %+v", topic.Category)
	}
	if topic.Creator != (model.UserRef{ID: alice, Login: "alice"}) {
		t.Errorf("Creator = %+v", topic.Creator)
	}
	if topic.PostsCount != 2 {
		t.Errorf("PostsCount = %d, want 2", topic.PostsCount)
	}
	if topic.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreateTopic_UnknownCategory(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")

	_, err := db.CreateTopic(context.Background(), alice, 42, "orphan")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("CreateTopic() error = %v, want ErrValidation", err)
	}
}

func TestListTopics_NewestFirstWithPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	cat := createTestCategory(t, db, "General")
	for _, name := range []string{"one", "two", "three"} {
		createTestTopic(t, db, alice, cat, name)
	}

	all, err := db.ListTopics(ctx, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListTopics() error = %v", err)
	}
	if len(all) != 3 || all[0].Name != "three" || all[2].Name != "one" {
		t.Fatalf("ListTopics() order = %v", topicNames(all))
	}

	page, err := db.ListTopics(ctx, repository.ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListTopics(page) error = %v", err)
	}
	if len(page) != 1 || page[0].Name != "two" {
		t.Errorf("ListTopics(limit 1, offset 1) = %v, want [two]", topicNames(page))
	}
}

func TestUpdateTopic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	general := createTestCategory(t, db, "General")
	other := createTestCategory(t, db, "Other")
	id := createTestTopic(t, db, alice, general, "before")

	name := "after"
	if err := db.UpdateTopic(ctx, id, model.TopicPatch{Name: &name, CategoryID: &other}); err != nil {
		t.Fatalf("UpdateTopic() error = %v", err)
	}

	got, _ := db.GetTopic(ctx, id)
	if got.Name != "after" || got.Category.ID != other {
		t.Errorf("after update: %+v", got)
	}

	missing := int64(777)
	if err := db.UpdateTopic(ctx, id, model.TopicPatch{CategoryID: &missing}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("UpdateTopic(bad category) error = %v, want ErrValidation", err)
	}
	if err := db.UpdateTopic(ctx, 999, model.TopicPatch{Name: &name}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateTopic(missing) error = %v, want ErrNotFound", err)
	}
	if err := db.UpdateTopic(ctx, id, model.TopicPatch{}); err != nil {
		t.Errorf("empty patch error = %v", err)
	}
}

func TestDeleteTopic_Cascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	cat := createTestCategory(t, db, "General")
	topicID := createTestTopic(t, db, alice, cat, "doomed")
	postID := createTestPost(t, db, topicID, alice, "bye")
	if err := db.AddBookmark(ctx, model.Bookmark{UserID: alice, TopicID: topicID}); err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}

	if err := db.DeleteTopic(ctx, topicID); err != nil {
		t.Fatalf("DeleteTopic() error = %v", err)
	}

	if _, err := db.GetPost(ctx, postID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("post survived topic deletion: err = %v", err)
	}
	bookmarks, _ := db.ListBookmarks(ctx, alice)
	if len(bookmarks) != 0 {
		t.Errorf("bookmarks survived topic deletion: %+v", bookmarks)
	}
	if err := db.DeleteTopic(ctx, topicID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteTopic() error = %v, want ErrNotFound", err)
	}
}

func TestSearchTopics(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	zed := createTestUser(t, db, "ZedTheGreat")
	general := createTestCategory(t, db, "General")
	gophers := createTestCategory(t, db, "Gophers")

	byName := createTestTopic(t, db, alice, general, "Concurrency patterns")
	byCategory := createTestTopic(t, db, alice, gophers, "Weekly thread")
	byLogin := createTestTopic(t, db, zed, general, "Introductions")
	byPost := createTestTopic(t, db, alice, general, "Misc")
	createTestPost(t, db, byPost, alice, "has anyone tried the new GOPHER mascot?")
	createTestTopic(t, db, alice, general, "unrelated")

	tests := []struct {
		query string
		want  []int64
	}{
		{"CONCURRENCY", []int64{byName}},
		{"gopher", []int64{byPost, byCategory}},
		{"zedthe", []int64{byLogin}},
		{"nothing matches this", nil},
		{"%", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.SearchTopics(ctx, tt.query, 50)
			if err != nil {
				t.Fatalf("SearchTopics() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchTopics(%q) = %v, want ids %v", tt.query, topicNames(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("result %d id = %d, want %d", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestSearchTopics_NonASCII(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "Иван")
	general := createTestCategory(t, db, "Общее")

	greeting := createTestTopic(t, db, author, general, "Привет Мир")
	tree := createTestTopic(t, db, author, general, "Праздники")
	createTestPost(t, db, tree, author, "Наряжаем ЁЛКУ")

	tests := []struct {
		query string
		want  []int64
	}{
		{"Привет", []int64{greeting}},
		{"привет", []int64{greeting}},
		{"ПРИВЕТ", []int64{greeting}},
		{"мИр", []int64{greeting}},
		{"ёлку", []int64{tree}},
		{"ИВАН", []int64{tree, greeting}},
		{"общее", []int64{tree, greeting}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.SearchTopics(ctx, tt.query, 50)
			if err != nil {
				t.Fatalf("SearchTopics() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchTopics(%q) = %v, want ids %v", tt.query, topicNames(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("result %d id = %d, want %d", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func topicNames(ts []model.Topic) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}
