package models

import "time"

// Post represents a post row. UserID is denormalized, not a relational
// reference to account.
type Post struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`
	TopicID    int64     `json:"topic_id" db:"topic_id"`
	CreateTime time.Time `json:"create_time" db:"create_time"`
	UpdateTime time.Time `json:"update_time" db:"update_time"`
	Deleted    bool      `json:"-" db:"deleted"`
}

// PostView is the read model for a post.
type PostView struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	TopicID    int64     `json:"topic_id"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// PostRequest is the payload for post creation and update.
type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Body    string `json:"body" binding:"required"`
	UserID  int64  `json:"user_id"`
	TopicID int64  `json:"topic_id"`
}

// Content-policy bounds for posts, shared by validation and tests.
const (
	PostTitleMinLen = 2
	PostTitleMaxLen = 255
	PostBodyMinLen  = 200
	PostBodyMaxLen  = 1000

	// PostForbiddenPrefix is the token a post body must not start with.
	PostForbiddenPrefix = "Asla"
	// PostSentenceTerminator is the required trailing character of a body.
	PostSentenceTerminator = "."
)
