package repository

import (
	"context"
	"database/sql"

	"github.com/convention-api/internal/database"
	"github.com/convention-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment. A missing owner account surfaces as
// NotFound via the foreign-key rejection.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comment (content, owner_id, previous_id, next_id, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`, comment.Content, comment.OwnerID, comment.PreviousID, comment.NextID).Scan(&id)
	if err != nil {
		if constraint, ok := foreignKeyConstraint(err); ok {
			switch constraint {
			case "comment_previous_fkey":
				if comment.PreviousID != nil {
					return 0, &models.NotFoundError{Kind: "comment", ID: *comment.PreviousID}
				}
			case "comment_next_fkey":
				if comment.NextID != nil {
					return 0, &models.NotFoundError{Kind: "comment", ID: *comment.NextID}
				}
			}
			return 0, &models.NotFoundError{Kind: "account", ID: comment.OwnerID}
		}
		return 0, err
	}
	comment.ID = id
	return id, nil
}

// GetActive retrieves an active comment by ID. Returns nil when the id does
// not resolve to an active row.
func (r *commentRepo) GetActive(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT id, content, owner_id, previous_id, next_id, deleted FROM comment WHERE id = $1 AND deleted = FALSE`

	var c models.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Content, &c.OwnerID, &c.PreviousID, &c.NextID, &c.Deleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Relink replaces the comment's owner and chain links. The whole
// check-and-write sequence runs in one serializable transaction with the
// touched rows locked, so concurrent relinks cannot interleave between the
// cycle check and the writes.
func (r *commentRepo) Relink(ctx context.Context, id int64, ownerID, previousID, nextID *int64) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var curPrevious, curNext *int64
	err = tx.QueryRowContext(ctx, `
		SELECT previous_id, next_id FROM comment WHERE id = $1 AND deleted = FALSE FOR UPDATE
	`, id).Scan(&curPrevious, &curNext)
	if err == sql.ErrNoRows {
		return &models.NotFoundError{Kind: "comment", ID: id}
	}
	if err != nil {
		return err
	}

	if ownerID != nil {
		var ok bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM account WHERE id = $1 AND deleted = FALSE)
		`, *ownerID).Scan(&ok)
		if err != nil {
			return err
		}
		if !ok {
			return &models.NotFoundError{Kind: "account", ID: *ownerID}
		}
	}

	lookup := func(cid int64) (*int64, *int64, bool, error) {
		var p, n *int64
		err := tx.QueryRowContext(ctx, `
			SELECT previous_id, next_id FROM comment WHERE id = $1 AND deleted = FALSE FOR UPDATE
		`, cid).Scan(&p, &n)
		if err == sql.ErrNoRows {
			return nil, nil, false, nil
		}
		if err != nil {
			return nil, nil, false, err
		}
		return p, n, true, nil
	}

	writes, err := planRelink(id, curPrevious, curNext, previousID, nextID, lookup)
	if err != nil {
		return err
	}

	for _, w := range writes {
		switch {
		case w.setPrevious && w.setNext:
			_, err = tx.ExecContext(ctx, `UPDATE comment SET previous_id = $1, next_id = $2 WHERE id = $3`, w.previous, w.next, w.id)
		case w.setPrevious:
			_, err = tx.ExecContext(ctx, `UPDATE comment SET previous_id = $1 WHERE id = $2`, w.previous, w.id)
		case w.setNext:
			_, err = tx.ExecContext(ctx, `UPDATE comment SET next_id = $1 WHERE id = $2`, w.next, w.id)
		}
		if err != nil {
			return err
		}
	}

	if ownerID != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE comment SET owner_id = $1 WHERE id = $2`, *ownerID, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SoftDelete marks an active comment deleted.
func (r *commentRepo) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.db, "comment", id)
}

// Retrieve clears the deletion flag regardless of current state.
func (r *commentRepo) Retrieve(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE comment SET deleted = FALSE WHERE id = $1`, id)
	return err
}

// RetrieveAll clears the deletion flag on every comment in one statement.
func (r *commentRepo) RetrieveAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE comment SET deleted = FALSE WHERE deleted = TRUE`)
	return err
}

// Page returns one page of active comments.
func (r *commentRepo) Page(ctx context.Context, p PageRequest) ([]models.Comment, error) {
	query, args, err := buildPageQuery(
		"id, content, owner_id, previous_id, next_id, deleted", "comment", CommentSortFields, p)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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

// CountActive returns the number of active comments.
func (r *commentRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment WHERE deleted = FALSE`).Scan(&count)
	return count, err
}
