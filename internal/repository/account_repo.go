package repository

import (
	"context"
	"database/sql"

	"github.com/convention-api/internal/database"
	"github.com/convention-api/internal/models"
)

// accountRepo is the concrete implementation of AccountRepository
type accountRepo struct {
	db *database.DB
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *database.DB) AccountRepository {
	return &accountRepo{db: db}
}

// CreateWithComments inserts a new account and its initial comments in one
// transaction. A unique-index rejection on email or username surfaces as
// DuplicateEntityError; the insert and the comment inserts commit together
// or not at all.
func (r *accountRepo) CreateWithComments(ctx context.Context, account *models.Account, comments []*models.Comment) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO account (email, username, comment_count, deleted)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id
	`, account.Email, account.Username, account.CommentCount).Scan(&id)
	if err != nil {
		return 0, translateUnique(err)
	}

	for _, c := range comments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO comment (content, owner_id, previous_id, next_id, deleted)
			VALUES ($1, $2, $3, $4, FALSE)
		`, c.Content, id, c.PreviousID, c.NextID)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, translateUnique(err)
	}

	account.ID = id
	return id, nil
}

// GetActive retrieves an active account by ID. Returns nil when the id does
// not resolve to an active row.
func (r *accountRepo) GetActive(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT id, email, username, comment_count, deleted FROM account WHERE id = $1 AND deleted = FALSE`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Email, &account.Username, &account.CommentCount, &account.Deleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// ActiveComments returns up to limit active comments owned by the account.
// The result is an unordered set; chain links are not traversed at read time.
func (r *accountRepo) ActiveComments(ctx context.Context, ownerID int64, limit int) ([]models.Comment, error) {
	query := `
		SELECT id, content, owner_id, previous_id, next_id, deleted
		FROM comment
		WHERE owner_id = $1 AND deleted = FALSE
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.OwnerID, &c.PreviousID, &c.NextID, &c.Deleted); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// EmailInUse checks whether another active account already uses the email.
// excludeID skips the account being updated.
func (r *accountRepo) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM account WHERE email = $1 AND deleted = FALSE AND id <> $2)
	`, email, excludeID).Scan(&exists)
	return exists, err
}

// UsernameInUse checks whether another active account already uses the
// username. excludeID skips the account being updated.
func (r *accountRepo) UsernameInUse(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM account WHERE username = $1 AND deleted = FALSE AND id <> $2)
	`, username, excludeID).Scan(&exists)
	return exists, err
}

// UpdateUsernameEmail persists new email/username values for an active
// account. The partial unique indexes reject conflicting writes.
func (r *accountRepo) UpdateUsernameEmail(ctx context.Context, account *models.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE account SET email = $1, username = $2 WHERE id = $3 AND deleted = FALSE
	`, account.Email, account.Username, account.ID)
	if err != nil {
		return translateUnique(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "account", ID: account.ID}
	}
	return nil
}

// SoftDelete marks an active account deleted. The conditional update closes
// the load-then-write gap: an already-deleted or absent id affects zero rows
// and reports NotFound.
func (r *accountRepo) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.db, "account", id)
}

// Retrieve clears the deletion flag regardless of current state. Retrieving
// an already-active account is a no-op success. Restoring an account whose
// email or username has since been reused by an active account collides with
// the partial unique indexes and surfaces as DuplicateEntityError.
func (r *accountRepo) Retrieve(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account SET deleted = FALSE WHERE id = $1`, id)
	return translateUnique(err)
}

// RetrieveAll clears the deletion flag on every account in one statement.
// Any email or username conflict among the rows being restored fails the
// whole statement; nothing is restored.
func (r *accountRepo) RetrieveAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account SET deleted = FALSE WHERE deleted = TRUE`)
	return translateUnique(err)
}

// Page returns one page of active accounts.
func (r *accountRepo) Page(ctx context.Context, p PageRequest) ([]models.Account, error) {
	query, args, err := buildPageQuery(
		"id, email, username, comment_count, deleted", "account", AccountSortFields, p)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Username, &a.CommentCount, &a.Deleted); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CountActive returns the number of active accounts.
func (r *accountRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account WHERE deleted = FALSE`).Scan(&count)
	return count, err
}

// softDelete is the shared conditional soft-delete update for all kinds.
func softDelete(ctx context.Context, db *database.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, `UPDATE `+table+` SET deleted = TRUE WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: table, ID: id}
	}
	return nil
}
