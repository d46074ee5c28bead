package models

import "time"

// Post is a student's feed entry.
type Post struct {
	PostID     int64     `db:"post_id" json:"post_id"`
	AuthorERP  int64     `db:"author_erp" json:"author_erp"`
	Body       string    `db:"body" json:"body"`
	Visibility string    `db:"visibility" json:"visibility"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PostResource is an attachment of a post.
type PostResource struct {
	ResourceID   int64  `db:"resource_id" json:"resource_id"`
	PostID       int64  `db:"post_id" json:"post_id"`
	ResourceType string `db:"resource_type" json:"resource_type"`
	ResourceURL  string `db:"resource_url" json:"resource_url"`
}

// PostReaction is one student's reaction to a post.
type PostReaction struct {
	PostID         int64     `db:"post_id" json:"post_id"`
	ReactorERP     int64     `db:"reactor_erp" json:"reactor_erp"`
	ReactionTypeID int64     `db:"reaction_type_id" json:"reaction_type_id"`
	ReactedAt      time.Time `db:"reacted_at" json:"reacted_at"`
}

// PostRow is one row of the flat post × resource × top reaction join.
type PostRow struct {
	PostID         int64     `db:"post_id"`
	AuthorERP      int64     `db:"author_erp"`
	AuthorName     string    `db:"author_name"`
	Body           string    `db:"body"`
	Visibility     string    `db:"visibility"`
	CreatedAt      time.Time `db:"created_at"`
	ReactionsCount int64     `db:"reactions_count"`
	ResourceID     *int64    `db:"resource_id"`
	ResourceType   *string   `db:"resource_type"`
	ResourceURL    *string   `db:"resource_url"`
	ReactionTypeID *int64    `db:"reaction_type_id"`
	ReactionName   *string   `db:"reaction_name"`
	ReactionEmoji  *string   `db:"reaction_emoji"`
	ReactionCount  *int64    `db:"reaction_count"`
}

// TopReaction summarises the most frequent reaction types of a post.
type TopReaction struct {
	ReactionTypeID int64   `json:"reaction_type_id"`
	Name           string  `json:"name"`
	Emoji          *string `json:"emoji"`
	Count          int64   `json:"count"`
}

// PostResourceView is a nested resource in a shaped post.
type PostResourceView struct {
	ResourceID   int64  `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	ResourceURL  string `json:"resource_url"`
}

// PostView is a post with its nested resources and top reactions.
type PostView struct {
	PostID         int64              `json:"post_id"`
	AuthorERP      int64              `json:"author_erp"`
	AuthorName     string             `json:"author_name"`
	Body           string             `json:"body"`
	Visibility     string             `json:"visibility"`
	CreatedAt      time.Time          `json:"created_at"`
	ReactionsCount int64              `json:"reactions_count"`
	Resources      []PostResourceView `json:"resources"`
	TopReactions   []TopReaction      `json:"top_reactions"`
}

// CreatePostRequest creates a post together with its resources.
type CreatePostRequest struct {
	Body       string                  `json:"body" validate:"required,max=5000"`
	Visibility string                  `json:"visibility" validate:"omitempty,oneof=PUBLIC FRIENDS PRIVATE"`
	AuthorERP  int64                   `json:"author_erp"`
	Resources  []CreatePostResourceReq `json:"resources" validate:"dive"`
}

// CreatePostResourceReq is one attachment of CreatePostRequest.
type CreatePostResourceReq struct {
	ResourceType string `json:"resource_type" validate:"required,oneof=IMAGE VIDEO LINK DOCUMENT"`
	ResourceURL  string `json:"resource_url" validate:"required,url"`
}
