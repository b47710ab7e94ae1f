package models

// Comment represents a comment row. PreviousID and NextID form an optional
// doubly-linked chain between comments; both sides are kept reciprocal by
// the relink operation, never by the database itself.
type Comment struct {
	ID         int64  `json:"id" db:"id"`
	Content    string `json:"content" db:"content"`
	OwnerID    int64  `json:"owner_id" db:"owner_id"`
	PreviousID *int64 `json:"previous_id,omitempty" db:"previous_id"`
	NextID     *int64 `json:"next_id,omitempty" db:"next_id"`
	Deleted    bool   `json:"-" db:"deleted"`
}

// CommentView is the read model for a comment.
type CommentView struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	OwnerID    int64  `json:"owner_id"`
	PreviousID *int64 `json:"previous_id,omitempty"`
	NextID     *int64 `json:"next_id,omitempty"`
}

// CreateCommentRequest is the payload for comment creation.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	OwnerID    int64  `json:"owner_id" binding:"required"`
	PreviousID *int64 `json:"previous_id,omitempty"`
	NextID     *int64 `json:"next_id,omitempty"`
}
