package models

// Account represents an account row. Deleted rows stay in the table and are
// invisible to every default read until retrieved.
type Account struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	Username     string `json:"username" db:"username"`
	CommentCount int64  `json:"comment_count" db:"comment_count"`
	Deleted      bool   `json:"-" db:"deleted"`
}

// AccountView is the read model for an account, carrying at most the
// requested number of the account's active comments. The comment set is
// unordered; the chain links are structural, not a display order.
type AccountView struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	Username     string        `json:"username"`
	Comments     []CommentView `json:"comments"`
	CommentCount int64         `json:"comment_count"`
}

// CreateAccountRequest is the payload for account creation. The initial
// comment set is persisted together with the account in one transaction.
type CreateAccountRequest struct {
	Email        string              `json:"email" binding:"required"`
	Username     string              `json:"username" binding:"required"`
	Comments     []NewCommentRequest `json:"comments"`
	CommentCount int64               `json:"comment_count"`
}

// NewCommentRequest is an initial comment supplied on account creation.
// Owner is implied by the account being created.
type NewCommentRequest struct {
	Content    string `json:"content"`
	PreviousID *int64 `json:"previous_id,omitempty"`
	NextID     *int64 `json:"next_id,omitempty"`
}
