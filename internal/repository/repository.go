package repository

import (
	"context"

	"github.com/convention-api/internal/database"
	"github.com/convention-api/internal/models"
)

// AccountRepository defines the interface for account data operations.
// Every read is scoped to active (not soft-deleted) rows; only the retrieve
// operations touch deleted rows.
type AccountRepository interface {
	CreateWithComments(ctx context.Context, account *models.Account, comments []*models.Comment) (int64, error)
	GetActive(ctx context.Context, id int64) (*models.Account, error)
	ActiveComments(ctx context.Context, ownerID int64, limit int) ([]models.Comment, error)
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameInUse(ctx context.Context, username string, excludeID int64) (bool, error)
	UpdateUsernameEmail(ctx context.Context, account *models.Account) error
	SoftDelete(ctx context.Context, id int64) error
	Retrieve(ctx context.Context, id int64) error
	RetrieveAll(ctx context.Context) error
	Page(ctx context.Context, p PageRequest) ([]models.Account, error)
	CountActive(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations.
// Relink is the single entry point for changing chain links; it updates both
// sides of every touched link in one transaction.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetActive(ctx context.Context, id int64) (*models.Comment, error)
	Relink(ctx context.Context, id int64, ownerID, previousID, nextID *int64) error
	SoftDelete(ctx context.Context, id int64) error
	Retrieve(ctx context.Context, id int64) error
	RetrieveAll(ctx context.Context) error
	Page(ctx context.Context, p PageRequest) ([]models.Comment, error)
	CountActive(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetActive(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id int64) error
	Retrieve(ctx context.Context, id int64) error
	RetrieveAll(ctx context.Context) error
	Page(ctx context.Context, p PageRequest, filters ...Filter) ([]models.Post, error)
	CountActive(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Account AccountRepository
	Comment CommentRepository
	Post    PostRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Account: NewAccountRepo(db),
		Comment: NewCommentRepo(db),
		Post:    NewPostRepo(db),
	}
}
