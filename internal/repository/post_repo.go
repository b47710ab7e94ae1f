package repository

import (
	"context"
	"database/sql"

	"github.com/convention-api/internal/database"
	"github.com/convention-api/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Create inserts a new post
func (r *postRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO post (user_id, title, body, topic_id, create_time, update_time, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id
	`, post.UserID, post.Title, post.Body, post.TopicID, post.CreateTime, post.UpdateTime).Scan(&id)
	if err != nil {
		return 0, err
	}
	post.ID = id
	return id, nil
}

// GetActive retrieves an active post by ID. Returns nil when the id does not
// resolve to an active row.
func (r *postRepo) GetActive(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, user_id, title, body, topic_id, create_time, update_time, deleted FROM post WHERE id = $1 AND deleted = FALSE`

	var p models.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Body, &p.TopicID, &p.CreateTime, &p.UpdateTime, &p.Deleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Update persists new title/body/topic values for an active post.
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE post SET title = $1, body = $2, topic_id = $3, update_time = $4
		WHERE id = $5 AND deleted = FALSE
	`, post.Title, post.Body, post.TopicID, post.UpdateTime, post.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "post", ID: post.ID}
	}
	return nil
}

// SoftDelete marks an active post deleted.
func (r *postRepo) SoftDelete(ctx context.Context, id int64) error {
	return softDelete(ctx, r.db, "post", id)
}

// Retrieve clears the deletion flag regardless of current state.
func (r *postRepo) Retrieve(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE post SET deleted = FALSE WHERE id = $1`, id)
	return err
}

// RetrieveAll clears the deletion flag on every post in one statement.
func (r *postRepo) RetrieveAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE post SET deleted = FALSE WHERE deleted = TRUE`)
	return err
}

// Page returns one page of active posts matching the given filters.
func (r *postRepo) Page(ctx context.Context, p PageRequest, filters ...Filter) ([]models.Post, error) {
	query, args, err := buildPageQuery(
		"id, user_id, title, body, topic_id, create_time, update_time, deleted", "post", PostSortFields, p, filters...)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Title, &post.Body, &post.TopicID,
			&post.CreateTime, &post.UpdateTime, &post.Deleted); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CountActive returns the number of active posts.
func (r *postRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post WHERE deleted = FALSE`).Scan(&count)
	return count, err
}
