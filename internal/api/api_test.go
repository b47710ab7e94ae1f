package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/convention-api/internal/config"
	"github.com/convention-api/internal/mocks"
	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/convention-api/internal/service"
)

// newTestRouter wires the real services over in-memory repositories so the
// full request path is exercised, error mapping included.
func newTestRouter() *gin.Engine {
	accounts := mocks.NewMockAccountRepository()
	comments := mocks.NewMockCommentRepository()
	posts := mocks.NewMockPostRepository()
	accounts.Comments = comments
	comments.Accounts = accounts

	repos := &repository.Repositories{
		Account: accounts,
		Comment: comments,
		Post:    posts,
	}
	cfg := &config.Config{
		Paging: config.PagingConfig{
			DefaultPageSize: 2,
			PostPageSize:    10,
			MaxPageSize:     100,
			CommentLimit:    5,
		},
	}
	return NewRouter(service.NewServices(repos, zerolog.Nop()), cfg, zerolog.Nop())
}

func doJSON(t *testing.T, router *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			payload = nil
		}
	}
	return w, payload
}

func createAccount(t *testing.T, router *gin.Engine, email, username string) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"username":%q}`, email, username)
	w, payload := doJSON(t, router, http.MethodPost, "/api/account", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create account: status %d, body %s", w.Code, w.Body.String())
	}
	return int64(payload["id"].(float64))
}

func createComment(t *testing.T, router *gin.Engine, ownerID int64, content string) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"content":%q,"owner_id":%d}`, content, ownerID)
	w, payload := doJSON(t, router, http.MethodPost, "/api/comment", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: status %d, body %s", w.Code, w.Body.String())
	}
	return int64(payload["id"].(float64))
}

func postBody() string {
	return strings.Repeat("a", models.PostBodyMinLen-1) + "."
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	w, payload := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if payload["status"] != "healthy" {
		t.Errorf("status field = %v", payload["status"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRequestIDEcho(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	id := createAccount(t, router, "ada@example.com", "ada")

	w, payload := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/account/%d", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if payload["email"] != "ada@example.com" {
		t.Errorf("email = %v", payload["email"])
	}

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/account?id=%d", id), "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("delete: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/account/%d", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/account/retrieve?id=%d", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("retrieve: status %d", w.Code)
	}

	w, payload = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/account/%d", id), "")
	if w.Code != http.StatusOK || payload["username"] != "ada" {
		t.Errorf("get after retrieve: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestCreateAccount_DuplicateEmailConflict(t *testing.T) {
	router := newTestRouter()

	createAccount(t, router, "ada@example.com", "ada")

	w, payload := doJSON(t, router, http.MethodPost, "/api/account",
		`{"email":"ada@example.com","username":"other"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if payload["field"] != "email" {
		t.Errorf("field = %v, want email", payload["field"])
	}
}

func TestUpdateAccountOverHTTP(t *testing.T) {
	router := newTestRouter()

	id := createAccount(t, router, "ada@example.com", "ada")

	w, _ := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/account?id=%d&username=lovelace", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}

	_, payload := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/account/%d", id), "")
	if payload["username"] != "lovelace" {
		t.Errorf("username = %v", payload["username"])
	}
}

func TestPageAccountsOverHTTP(t *testing.T) {
	router := newTestRouter()

	for i := 0; i < 5; i++ {
		createAccount(t, router, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("user%d", i))
	}

	// Default size is 2.
	w, _ := doJSON(t, router, http.MethodGet, "/api/account", "")
	if w.Code != http.StatusOK {
		t.Fatalf("page: status %d", w.Code)
	}
	var views []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("page 0 size = %d, want 2", len(views))
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/account?page=2", "")
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("page 2 size = %d, want 1", len(views))
	}
}

func TestPageAccounts_BadParameters(t *testing.T) {
	router := newTestRouter()

	for _, target := range []string{
		"/api/account?page=-1",
		"/api/account?size=0",
		"/api/account?size=101",
		"/api/account?sort=deleted",
		"/api/account?commentLimit=-1",
		"/api/account/1?commentLimit=-1",
	} {
		w, _ := doJSON(t, router, http.MethodGet, target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, w.Code)
		}
	}
}

func TestRelinkCommentOverHTTP(t *testing.T) {
	router := newTestRouter()

	owner := createAccount(t, router, "ada@example.com", "ada")
	c := createComment(t, router, owner, "C")
	d := createComment(t, router, owner, "D")

	w, _ := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/comment?id=%d&previous=%d", d, c), "")
	if w.Code != http.StatusOK {
		t.Fatalf("relink: status %d, body %s", w.Code, w.Body.String())
	}

	_, payload := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/comment/%d", c), "")
	if payload["next_id"] == nil || int64(payload["next_id"].(float64)) != d {
		t.Errorf("C.next_id = %v, want %d", payload["next_id"], d)
	}
}

func TestRelinkComment_SelfReferenceUnprocessable(t *testing.T) {
	router := newTestRouter()

	owner := createAccount(t, router, "ada@example.com", "ada")
	c := createComment(t, router, owner, "C")

	w, _ := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/comment?id=%d&next=%d", c, c), "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestCreateComment_BlankContentRejected(t *testing.T) {
	router := newTestRouter()

	owner := createAccount(t, router, "ada@example.com", "ada")

	w, payload := doJSON(t, router, http.MethodPost, "/api/comment",
		fmt.Sprintf(`{"content":"   ","owner_id":%d}`, owner))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if payload["field"] != "content" {
		t.Errorf("field = %v", payload["field"])
	}
}

func TestPostEndpoints(t *testing.T) {
	router := newTestRouter()

	w, payload := doJSON(t, router, http.MethodPost, "/posts",
		fmt.Sprintf(`{"user_id":1,"title":"go generics","body":%q,"topic_id":10}`, postBody()))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	id := int64(payload["id"].(float64))

	w, payload = doJSON(t, router, http.MethodPut, fmt.Sprintf("/posts?id=%d", id),
		fmt.Sprintf(`{"user_id":1,"title":"go modules","body":%q}`, postBody()))
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}
	if payload["title"] != "go modules" {
		t.Errorf("title = %v", payload["title"])
	}
	if int64(payload["topic_id"].(float64)) != 10 {
		t.Errorf("topic_id = %v, want 10 preserved", payload["topic_id"])
	}

	w, _ = doJSON(t, router, http.MethodGet, "/posts?title=modules", "")
	if w.Code != http.StatusOK {
		t.Fatalf("page: status %d", w.Code)
	}
	var views []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("filtered page = %d posts, want 1", len(views))
	}

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/posts?id=%d", id), "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("delete: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPut, "/posts/retrieve", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("retrieve all: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/posts", "")
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("page after retrieve = %d posts, want 1", len(views))
	}
}

func TestCreatePost_ContentPolicyRejected(t *testing.T) {
	router := newTestRouter()

	w, payload := doJSON(t, router, http.MethodPost, "/posts",
		fmt.Sprintf(`{"user_id":1,"title":"Hello","body":%q}`, "Asla "+postBody()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if payload["field"] != "body" {
		t.Errorf("field = %v", payload["field"])
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	router := newTestRouter()

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/account/999"},
		{http.MethodGet, "/api/comment/999"},
		{http.MethodDelete, "/api/account?id=999"},
		{http.MethodDelete, "/api/comment?id=999"},
		{http.MethodDelete, "/posts?id=999"},
	} {
		w, _ := doJSON(t, router, tc.method, tc.target, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status %d, want 404", tc.method, tc.target, w.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	createAccount(t, router, "ada@example.com", "ada")

	w, payload := doJSON(t, router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	db, ok := payload["database"].(map[string]any)
	if !ok {
		t.Fatalf("payload = %v", payload)
	}
	if int(db["accounts"].(float64)) != 1 {
		t.Errorf("accounts = %v, want 1", db["accounts"])
	}
}
