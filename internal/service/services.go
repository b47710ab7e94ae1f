package service

import (
	"context"
	"errors"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/convention-api/pkg/logger"
	"github.com/rs/zerolog"
)

// AccountService defines the account operations exposed to the HTTP layer
type AccountService interface {
	GetAccount(ctx context.Context, id int64, commentLimit int) (*models.AccountView, error)
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (int64, error)
	UpdateUsernameEmail(ctx context.Context, id int64, username, email *string) (int64, error)
	SoftDeleteAccount(ctx context.Context, id int64) error
	PageAccounts(ctx context.Context, p repository.PageRequest, commentLimit int) ([]models.AccountView, error)
	RetrieveAccount(ctx context.Context, id int64) error
	RetrieveAllAccounts(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// CommentService defines the comment operations exposed to the HTTP layer
type CommentService interface {
	GetComment(ctx context.Context, id int64) (*models.CommentView, error)
	CreateComment(ctx context.Context, req *models.CreateCommentRequest) (int64, error)
	RelinkComment(ctx context.Context, id int64, ownerID, previousID, nextID *int64) (int64, error)
	SoftDeleteComment(ctx context.Context, id int64) error
	PageComments(ctx context.Context, p repository.PageRequest) ([]models.CommentView, error)
	RetrieveComment(ctx context.Context, id int64) error
	RetrieveAllComments(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// PostService defines the post operations exposed to the HTTP layer
type PostService interface {
	PagePosts(ctx context.Context, p repository.PageRequest, userID *int64, titleSubstring string, topicID *int64) ([]models.PostView, error)
	CreatePost(ctx context.Context, req *models.PostRequest) (int64, error)
	UpdatePost(ctx context.Context, id int64, req *models.PostRequest) (*models.PostView, error)
	SoftDeletePost(ctx context.Context, id int64) error
	RetrievePost(ctx context.Context, id int64) error
	RetrieveAllPosts(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Account AccountService
	Comment CommentService
	Post    PostService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Account: newAccountService(repos.Account, log),
		Comment: newCommentService(repos.Comment, log),
		Post:    newPostService(repos.Post, log),
	}
}

// storeFailure passes domain errors through untouched and wraps anything
// else as an operational store failure, logging it with the request
// correlation id at the point it happened.
func storeFailure(ctx context.Context, log zerolog.Logger, op string, err error) error {
	var (
		notFound      *models.NotFoundError
		duplicate     *models.DuplicateEntityError
		invalidChain  *models.InvalidChainStateError
		contentPolicy *models.ContentPolicyError
	)
	if errors.As(err, &notFound) || errors.As(err, &duplicate) ||
		errors.As(err, &invalidChain) || errors.As(err, &contentPolicy) ||
		errors.Is(err, models.ErrInvalidSortField) {
		return err
	}

	log.Error().
		Err(err).
		Str("op", op).
		Str("request_id", logger.RequestID(ctx)).
		Msg("Store operation failed")
	return &models.StoreError{Op: op, Err: err}
}
