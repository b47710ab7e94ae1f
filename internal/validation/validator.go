package validation

import (
	"fmt"
	"strings"

	"github.com/convention-api/internal/models"
)

// ValidatePost checks the post content policy: title and body length bounds,
// the forbidden leading token, and the sentence terminator. The first
// violation found is returned as a ContentPolicyError.
func ValidatePost(req *models.PostRequest) error {
	if len(req.Title) < models.PostTitleMinLen {
		return &models.ContentPolicyError{
			Field:  "title",
			Reason: fmt.Sprintf("must be at least %d characters", models.PostTitleMinLen),
		}
	}
	if len(req.Title) > models.PostTitleMaxLen {
		return &models.ContentPolicyError{
			Field:  "title",
			Reason: fmt.Sprintf("must be at most %d characters", models.PostTitleMaxLen),
		}
	}
	if len(req.Body) < models.PostBodyMinLen {
		return &models.ContentPolicyError{
			Field:  "body",
			Reason: fmt.Sprintf("must be at least %d characters", models.PostBodyMinLen),
		}
	}
	if len(req.Body) > models.PostBodyMaxLen {
		return &models.ContentPolicyError{
			Field:  "body",
			Reason: fmt.Sprintf("must be at most %d characters", models.PostBodyMaxLen),
		}
	}
	if strings.HasPrefix(strings.TrimLeft(req.Body, " \t\n\r"), models.PostForbiddenPrefix) {
		return &models.ContentPolicyError{
			Field:  "body",
			Reason: fmt.Sprintf("must not begin with %q", models.PostForbiddenPrefix),
		}
	}
	if !strings.HasSuffix(strings.TrimRight(req.Body, " \t\n\r"), models.PostSentenceTerminator) {
		return &models.ContentPolicyError{
			Field:  "body",
			Reason: fmt.Sprintf("must end with %q", models.PostSentenceTerminator),
		}
	}
	return nil
}

// ValidateCommentContent rejects blank comment content.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &models.ContentPolicyError{Field: "content", Reason: "must not be blank"}
	}
	return nil
}
