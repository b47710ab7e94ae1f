package service

import (
	"context"
	"time"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/convention-api/internal/validation"
	"github.com/rs/zerolog"
)

// postService is the concrete implementation of PostService
type postService struct {
	posts repository.PostRepository
	log   zerolog.Logger
}

func newPostService(posts repository.PostRepository, log zerolog.Logger) *postService {
	return &postService{
		posts: posts,
		log:   log.With().Str("service", "post").Logger(),
	}
}

// PagePosts returns one page of active posts, optionally filtered by owner,
// title substring and topic. Absent filter values drop out of the
// conjunction.
func (s *postService) PagePosts(ctx context.Context, p repository.PageRequest, userID *int64, titleSubstring string, topicID *int64) ([]models.PostView, error) {
	posts, err := s.posts.Page(ctx, p,
		repository.FilterEquals("user_id", userID),
		repository.FilterContains("title", titleSubstring),
		repository.FilterEquals("topic_id", topicID),
	)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "post.page", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, postView(&posts[i]))
	}
	return views, nil
}

// CreatePost persists a new post after content-policy validation.
func (s *postService) CreatePost(ctx context.Context, req *models.PostRequest) (int64, error) {
	if err := validation.ValidatePost(req); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		UserID:     req.UserID,
		Title:      req.Title,
		Body:       req.Body,
		TopicID:    req.TopicID,
		CreateTime: now,
		UpdateTime: now,
	}
	id, err := s.posts.Create(ctx, post)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "post.create", err)
	}

	s.log.Info().Int64("post_id", id).Int64("user_id", req.UserID).Msg("Post created")
	return id, nil
}

// UpdatePost replaces title, body and topic of an active post and bumps its
// update time. The content policy is re-validated on every update.
func (s *postService) UpdatePost(ctx context.Context, id int64, req *models.PostRequest) (*models.PostView, error) {
	if err := validation.ValidatePost(req); err != nil {
		return nil, err
	}

	post, err := s.posts.GetActive(ctx, id)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "post.update", err)
	}
	if post == nil {
		return nil, &models.NotFoundError{Kind: "post", ID: id}
	}

	post.Title = req.Title
	post.Body = req.Body
	if req.TopicID != 0 {
		post.TopicID = req.TopicID
	}
	post.UpdateTime = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, storeFailure(ctx, s.log, "post.update", err)
	}

	view := postView(post)
	return &view, nil
}

// SoftDeletePost marks the post deleted.
func (s *postService) SoftDeletePost(ctx context.Context, id int64) error {
	if err := s.posts.SoftDelete(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "post.delete", err)
	}
	s.log.Info().Int64("post_id", id).Msg("Post soft-deleted")
	return nil
}

// RetrievePost clears the deletion flag; retrieving an active post is a
// no-op success.
func (s *postService) RetrievePost(ctx context.Context, id int64) error {
	if err := s.posts.Retrieve(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "post.retrieve", err)
	}
	return nil
}

// RetrieveAllPosts clears the deletion flag on every post.
func (s *postService) RetrieveAllPosts(ctx context.Context) error {
	if err := s.posts.RetrieveAll(ctx); err != nil {
		return storeFailure(ctx, s.log, "post.retrieve_all", err)
	}
	s.log.Info().Msg("All posts retrieved")
	return nil
}

// Count returns the number of active posts.
func (s *postService) Count(ctx context.Context) (int, error) {
	count, err := s.posts.CountActive(ctx)
	if err != nil {
		return 0, storeFailure(ctx, s.log, "post.count", err)
	}
	return count, nil
}

func postView(p *models.Post) models.PostView {
	return models.PostView{
		ID:         p.ID,
		UserID:     p.UserID,
		Title:      p.Title,
		Body:       p.Body,
		TopicID:    p.TopicID,
		CreateTime: p.CreateTime,
		UpdateTime: p.UpdateTime,
	}
}
