package model

import "time"

// Category groups topics ("General", "Off-topic", ...).
type Category struct {
	ID   int64  `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

// Topic is a discussion thread. Category, Creator and PostsCount are joined
// in by the repository when a topic is read.
type Topic struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Category   Category  `json:"category"`
	Creator    UserRef   `json:"creator"`
	PostsCount int64     `json:"posts_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopicPatch holds the optional fields of a topic update; nil means unchanged.
type TopicPatch struct {
	Name       *string
	CategoryID *int64
}

// Post is a message inside a topic.
type Post struct {
	ID        int64     `json:"id"`
	TopicID   int64     `json:"topic_id"`
	Text      string    `json:"text"`
	Sender    UserRef   `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// AvailableReaction is one entry of the reaction palette (an emoji or short tag).
type AvailableReaction struct {
	ID       int64  `json:"id"       db:"id"`
	Reaction string `json:"reaction" db:"reaction"`
}

// Reaction is a user's reaction on a post.
type Reaction struct {
	PostID     int64  `json:"-"`
	AuthorID   int64  `json:"author_id"`
	ReactionID int64  `json:"reaction_id"`
	Reaction   string `json:"reaction"`
}

// Bookmark marks a topic for a user.
type Bookmark struct {
	UserID  int64 `json:"-"`
	TopicID int64 `json:"topic_id"`
}

// Report flags a user for moderators.
type Report struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"author_id"`
	ReportedUser UserRef   `json:"reported_user"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// Stats are site-wide counters.
type Stats struct {
	PostsCount  int64 `json:"posts_count"`
	UsersCount  int64 `json:"users_count"`
	TopicsCount int64 `json:"topics_count"`
}
