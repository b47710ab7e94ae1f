package service

import (
	"context"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/rs/zerolog"
)

// accountService is the concrete implementation of AccountService
type accountService struct {
	accounts repository.AccountRepository
	log      zerolog.Logger
}

func newAccountService(accounts repository.AccountRepository, log zerolog.Logger) *accountService {
	return &accountService{
		accounts: accounts,
		log:      log.With().Str("service", "account").Logger(),
	}
}

// GetAccount returns the active account with up to commentLimit of its
// active comments.
func (s *accountService) GetAccount(ctx context.Context, id int64, commentLimit int) (*models.AccountView, error) {
	account, err := s.accounts.GetActive(ctx, id)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "account.get", err)
	}
	if account == nil {
		return nil, &models.NotFoundError{Kind: "account", ID: id}
	}

	return s.buildView(ctx, account, commentLimit)
}

// CreateAccount persists a new account with its initial comment set. Email
// is checked before username so the friendlier error names the right field;
// the partial unique indexes remain the authoritative duplicate check when
// two creates race past the pre-checks.
func (s *accountService) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (int64, error) {
	inUse, err := s.accounts.EmailInUse(ctx, req.Email, 0)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "account.create", err)
	}
	if inUse {
		return 0, &models.DuplicateEntityError{Field: "email", Value: req.Email}
	}

	inUse, err = s.accounts.UsernameInUse(ctx, req.Username, 0)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "account.create", err)
	}
	if inUse {
		return 0, &models.DuplicateEntityError{Field: "username", Value: req.Username}
	}

	account := &models.Account{
		Email:        req.Email,
		Username:     req.Username,
		CommentCount: req.CommentCount,
	}
	comments := make([]*models.Comment, 0, len(req.Comments))
	for _, c := range req.Comments {
		comments = append(comments, &models.Comment{
			Content:    c.Content,
			PreviousID: c.PreviousID,
			NextID:     c.NextID,
		})
	}

	id, err := s.accounts.CreateWithComments(ctx, account, comments)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "account.create", err)
	}

	s.log.Info().Int64("account_id", id).Msg("Account created")
	return id, nil
}

// UpdateUsernameEmail applies a partial update to an active account. Only
// the fields actually being changed are re-validated for uniqueness, each
// excluding the account itself.
func (s *accountService) UpdateUsernameEmail(ctx context.Context, id int64, username, email *string) (int64, error) {
	account, err := s.accounts.GetActive(ctx, id)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "account.update", err)
	}
	if account == nil {
		return 0, &models.NotFoundError{Kind: "account", ID: id}
	}

	if email != nil && *email != account.Email {
		inUse, err := s.accounts.EmailInUse(ctx, *email, id)
		if err != nil {
			return 0, storeFailure(ctx, s.log, "account.update", err)
		}
		if inUse {
			return 0, &models.DuplicateEntityError{Field: "email", Value: *email}
		}
		account.Email = *email
	}

	if username != nil && *username != account.Username {
		inUse, err := s.accounts.UsernameInUse(ctx, *username, id)
		if err != nil {
			return 0, storeFailure(ctx, s.log, "account.update", err)
		}
		if inUse {
			return 0, &models.DuplicateEntityError{Field: "username", Value: *username}
		}
		account.Username = *username
	}

	if err := s.accounts.UpdateUsernameEmail(ctx, account); err != nil {
		return 0, storeFailure(ctx, s.log, "account.update", err)
	}
	return account.ID, nil
}

// SoftDeleteAccount marks the account deleted. Dependent comments are not
// cascaded.
func (s *accountService) SoftDeleteAccount(ctx context.Context, id int64) error {
	if err := s.accounts.SoftDelete(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "account.delete", err)
	}
	s.log.Info().Int64("account_id", id).Msg("Account soft-deleted")
	return nil
}

// PageAccounts returns one page of active accounts with their comment sets.
func (s *accountService) PageAccounts(ctx context.Context, p repository.PageRequest, commentLimit int) ([]models.AccountView, error) {
	accounts, err := s.accounts.Page(ctx, p)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "account.page", err)
	}

	views := make([]models.AccountView, 0, len(accounts))
	for i := range accounts {
		view, err := s.buildView(ctx, &accounts[i], commentLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// RetrieveAccount clears the deletion flag; retrieving an active account is
// a no-op success.
func (s *accountService) RetrieveAccount(ctx context.Context, id int64) error {
	if err := s.accounts.Retrieve(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "account.retrieve", err)
	}
	return nil
}

// RetrieveAllAccounts clears the deletion flag on every account.
func (s *accountService) RetrieveAllAccounts(ctx context.Context) error {
	if err := s.accounts.RetrieveAll(ctx); err != nil {
		return storeFailure(ctx, s.log, "account.retrieve_all", err)
	}
	s.log.Info().Msg("All accounts retrieved")
	return nil
}

// Count returns the number of active accounts.
func (s *accountService) Count(ctx context.Context) (int, error) {
	count, err := s.accounts.CountActive(ctx)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "account.count", err)
	}
	return count, nil
}

func (s *accountService) buildView(ctx context.Context, account *models.Account, commentLimit int) (*models.AccountView, error) {
	comments, err := s.accounts.ActiveComments(ctx, account.ID, commentLimit)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "account.comments", err)
	}

	commentViews := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, models.CommentView{
			ID:         c.ID,
			Content:    c.Content,
			OwnerID:    c.OwnerID,
			PreviousID: c.PreviousID,
			NextID:     c.NextID,
		})
	}

	return &models.AccountView{
		ID:           account.ID,
		Email:        account.Email,
		Username:     account.Username,
		Comments:     commentViews,
		CommentCount: account.CommentCount,
	}, nil
}
