package service

import (
	"context"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/convention-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	log      zerolog.Logger
}

func newCommentService(comments repository.CommentRepository, log zerolog.Logger) *commentService {
	return &commentService{
		comments: comments,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// GetComment returns the active comment with the given id.
func (s *commentService) GetComment(ctx context.Context, id int64) (*models.CommentView, error) {
	comment, err := s.comments.GetActive(ctx, id)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "comment.get", err)
	}
	if comment == nil {
		return nil, &models.NotFoundError{Kind: "comment", ID: id}
	}
	view := commentView(comment)
	return &view, nil
}

// CreateComment persists a new comment after rejecting blank content.
func (s *commentService) CreateComment(ctx context.Context, req *models.CreateCommentRequest) (int64, error) {
	if err := validation.ValidateCommentContent(req.Content); err != nil {
		return 0, err
	}

	comment := &models.Comment{
		Content:    req.Content,
		OwnerID:    req.OwnerID,
		PreviousID: req.PreviousID,
		NextID:     req.NextID,
	}
	id, err := s.comments.Create(ctx, comment)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "comment.create", err)
	}

	s.log.Info().Int64("comment_id", id).Int64("owner_id", req.OwnerID).Msg("Comment created")
	return id, nil
}

// RelinkComment updates the comment's owner and chain links. Self-references
// are rejected up front; cycle detection and the reciprocal writes happen
// atomically in the store.
func (s *commentService) RelinkComment(ctx context.Context, id int64, ownerID, previousID, nextID *int64) (int64, error) {
	if previousID != nil && *previousID == id {
		return 0, &models.InvalidChainStateError{Reason: "comment cannot be its own previous"}
	}
	if nextID != nil && *nextID == id {
		return 0, &models.InvalidChainStateError{Reason: "comment cannot be its own next"}
	}

	if err := s.comments.Relink(ctx, id, ownerID, previousID, nextID); err != nil {
		return 0, storeFailure(ctx, s.log, "comment.relink", err)
	}
	return id, nil
}

// SoftDeleteComment marks the comment deleted. Its chain links are left in
// place so retrieving the comment restores the record exactly as it was.
func (s *commentService) SoftDeleteComment(ctx context.Context, id int64) error {
	if err := s.comments.SoftDelete(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "comment.delete", err)
	}
	s.log.Info().Int64("comment_id", id).Msg("Comment soft-deleted")
	return nil
}

// PageComments returns one page of active comments.
func (s *commentService) PageComments(ctx context.Context, p repository.PageRequest) ([]models.CommentView, error) {
	comments, err := s.comments.Page(ctx, p)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "comment.page", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, commentView(&comments[i]))
	}
	return views, nil
}

// RetrieveComment clears the deletion flag; retrieving an active comment is
// a no-op success.
func (s *commentService) RetrieveComment(ctx context.Context, id int64) error {
	if err := s.comments.Retrieve(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "comment.retrieve", err)
	}
	return nil
}

// RetrieveAllComments clears the deletion flag on every comment.
func (s *commentService) RetrieveAllComments(ctx context.Context) error {
	if err := s.comments.RetrieveAll(ctx); err != nil {
		return storeFailure(ctx, s.log, "comment.retrieve_all", err)
	}
	s.log.Info().Msg("All comments retrieved")
	return nil
}

// Count returns the number of active comments.
func (s *commentService) Count(ctx context.Context) (int, error) {
	count, err := s.comments.CountActive(ctx)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "comment.count", err)
	}
	return count, nil
}

func commentView(c *models.Comment) models.CommentView {
	return models.CommentView{
		ID:         c.ID,
		Content:    c.Content,
		OwnerID:    c.OwnerID,
		PreviousID: c.PreviousID,
		NextID:     c.NextID,
	}
}
