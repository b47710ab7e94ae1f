package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
)

// In-memory implementations of the repository interfaces for tests. They
// mirror the store semantics the SQL layer gets from Postgres: the partial
// unique indexes, the conditional soft-delete update, and the reciprocal
// chain writes of a relink.

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	Accounts map[int64]*models.Account
	// Comments, when wired, receives the initial comment set of
	// CreateWithComments and backs ActiveComments.
	Comments *MockCommentRepository
	NextID   int64
	FailWith error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int64]*models.Account),
		NextID:   1,
	}
}

func (m *MockAccountRepository) CreateWithComments(ctx context.Context, account *models.Account, comments []*models.Comment) (int64, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	if err := m.checkUnique(account.Email, account.Username, 0); err != nil {
		return 0, err
	}

	id := m.NextID
	m.NextID++
	stored := *account
	stored.ID = id
	stored.Deleted = false
	m.Accounts[id] = &stored

	if m.Comments != nil {
		for _, c := range comments {
			cc := *c
			cc.OwnerID = id
			if _, err := m.Comments.Create(ctx, &cc); err != nil {
				return 0, err
			}
		}
	}

	account.ID = id
	return id, nil
}

func (m *MockAccountRepository) GetActive(ctx context.Context, id int64) (*models.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	a, ok := m.Accounts[id]
	if !ok || a.Deleted {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (m *MockAccountRepository) ActiveComments(ctx context.Context, ownerID int64, limit int) ([]models.Comment, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if m.Comments == nil || limit <= 0 {
		return nil, nil
	}
	var out []models.Comment
	for _, c := range m.Comments.Comments {
		if c.OwnerID == ownerID && !c.Deleted {
			out = append(out, *c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockAccountRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	for _, a := range m.Accounts {
		if !a.Deleted && a.Email == email && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) UsernameInUse(ctx context.Context, username string, excludeID int64) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	for _, a := range m.Accounts {
		if !a.Deleted && a.Username == username && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) UpdateUsernameEmail(ctx context.Context, account *models.Account) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	existing, ok := m.Accounts[account.ID]
	if !ok || existing.Deleted {
		return &models.NotFoundError{Kind: "account", ID: account.ID}
	}
	if err := m.checkUnique(account.Email, account.Username, account.ID); err != nil {
		return err
	}
	existing.Email = account.Email
	existing.Username = account.Username
	return nil
}

func (m *MockAccountRepository) SoftDelete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	a, ok := m.Accounts[id]
	if !ok || a.Deleted {
		return &models.NotFoundError{Kind: "account", ID: id}
	}
	a.Deleted = true
	return nil
}

func (m *MockAccountRepository) Retrieve(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	a, ok := m.Accounts[id]
	if !ok || !a.Deleted {
		return nil
	}
	// The partial unique indexes reject restoring a row whose email or
	// username is now held by an active account.
	if err := m.checkUnique(a.Email, a.Username, id); err != nil {
		return err
	}
	a.Deleted = false
	return nil
}

func (m *MockAccountRepository) RetrieveAll(ctx context.Context) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	// The single restoring statement fails wholesale when any row being
	// restored would collide on email or username, including with another
	// restored row.
	for _, a := range m.Accounts {
		if !a.Deleted {
			continue
		}
		for _, b := range m.Accounts {
			if b.ID == a.ID {
				continue
			}
			if b.Email == a.Email {
				return &models.DuplicateEntityError{Field: "email", Value: a.Email}
			}
			if b.Username == a.Username {
				return &models.DuplicateEntityError{Field: "username", Value: a.Username}
			}
		}
	}
	for _, a := range m.Accounts {
		a.Deleted = false
	}
	return nil
}

func (m *MockAccountRepository) Page(ctx context.Context, p repository.PageRequest) ([]models.Account, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	column, err := repository.AccountSortFields.Resolve(p.SortField)
	if err != nil {
		return nil, err
	}

	var active []models.Account
	for _, a := range m.Accounts {
		if !a.Deleted {
			active = append(active, *a)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		var less bool
		switch column {
		case "email":
			less = active[i].Email < active[j].Email
		case "username":
			less = active[i].Username < active[j].Username
		case "comment_count":
			less = active[i].CommentCount < active[j].CommentCount
		default:
			less = active[i].ID < active[j].ID
		}
		if p.Descending {
			return !less
		}
		return less
	})

	return pageSlice(active, p), nil
}

func (m *MockAccountRepository) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, a := range m.Accounts {
		if !a.Deleted {
			count++
		}
	}
	return count, nil
}

// checkUnique mirrors the partial unique indexes on active accounts.
func (m *MockAccountRepository) checkUnique(email, username string, excludeID int64) error {
	for _, a := range m.Accounts {
		if a.Deleted || a.ID == excludeID {
			continue
		}
		if a.Email == email {
			return &models.DuplicateEntityError{Field: "email", Value: email}
		}
	}
	for _, a := range m.Accounts {
		if a.Deleted || a.ID == excludeID {
			continue
		}
		if a.Username == username {
			return &models.DuplicateEntityError{Field: "username", Value: username}
		}
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments map[int64]*models.Comment
	// Accounts, when wired, backs the owner existence checks.
	Accounts *MockAccountRepository
	NextID   int64
	FailWith error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	if m.Accounts != nil {
		if a, ok := m.Accounts.Accounts[comment.OwnerID]; !ok || a == nil {
			return 0, &models.NotFoundError{Kind: "account", ID: comment.OwnerID}
		}
	}

	id := m.NextID
	m.NextID++
	stored := *comment
	stored.ID = id
	stored.Deleted = false
	m.Comments[id] = &stored

	comment.ID = id
	return id, nil
}

func (m *MockCommentRepository) GetActive(ctx context.Context, id int64) (*models.Comment, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	c, ok := m.Comments[id]
	if !ok || c.Deleted {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCommentRepository) Relink(ctx context.Context, id int64, ownerID, previousID, nextID *int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	node, ok := m.Comments[id]
	if !ok || node.Deleted {
		return &models.NotFoundError{Kind: "comment", ID: id}
	}
	if ownerID != nil && m.Accounts != nil {
		if a, ok := m.Accounts.Accounts[*ownerID]; !ok || a.Deleted {
			return &models.NotFoundError{Kind: "account", ID: *ownerID}
		}
	}
	if previousID != nil && *previousID == id {
		return &models.InvalidChainStateError{Reason: "comment cannot be its own previous"}
	}
	if nextID != nil && *nextID == id {
		return &models.InvalidChainStateError{Reason: "comment cannot be its own next"}
	}
	if previousID != nil && nextID != nil && *previousID == *nextID {
		return &models.InvalidChainStateError{Reason: "previous and next cannot be the same comment"}
	}

	active := func(cid int64) *models.Comment {
		if c, ok := m.Comments[cid]; ok && !c.Deleted {
			return c
		}
		return nil
	}
	if previousID != nil && active(*previousID) == nil {
		return &models.NotFoundError{Kind: "comment", ID: *previousID}
	}
	if nextID != nil && active(*nextID) == nil {
		return &models.NotFoundError{Kind: "comment", ID: *nextID}
	}

	// Cycle checks mirror the SQL store: they walk the post-state the writes
	// will produce, with the node's old edges detached and the new reciprocal
	// edges in place, so reordering the node within its own chain passes.
	var prevOldNext, nextOldPrevious *int64
	if previousID != nil {
		prevOldNext = active(*previousID).NextID
	}
	if nextID != nil {
		nextOldPrevious = active(*nextID).PreviousID
	}
	if nextID != nil && m.reaches(*nextID, id, func(c *models.Comment) *int64 {
		switch {
		case previousID != nil && c.ID == *previousID:
			return &id
		case node.PreviousID != nil && c.ID == *node.PreviousID:
			return nil
		case nextOldPrevious != nil && c.ID == *nextOldPrevious:
			return nil
		}
		return c.NextID
	}) {
		return &models.InvalidChainStateError{Reason: "link would create a cycle"}
	}
	if previousID != nil && m.reaches(*previousID, id, func(c *models.Comment) *int64 {
		switch {
		case nextID != nil && c.ID == *nextID:
			return &id
		case node.NextID != nil && c.ID == *node.NextID:
			return nil
		case prevOldNext != nil && c.ID == *prevOldNext:
			return nil
		}
		return c.PreviousID
	}) {
		return &models.InvalidChainStateError{Reason: "link would create a cycle"}
	}

	// Detach old neighbors that are no longer adjacent.
	if node.PreviousID != nil && (previousID == nil || *previousID != *node.PreviousID) {
		if old := active(*node.PreviousID); old != nil {
			old.NextID = nil
		}
	}
	if node.NextID != nil && (nextID == nil || *nextID != *node.NextID) {
		if old := active(*node.NextID); old != nil {
			old.PreviousID = nil
		}
	}

	// Displaced partners of the new neighbors lose their back-pointer.
	if previousID != nil {
		p := active(*previousID)
		if p.NextID != nil && *p.NextID != id {
			if displaced := active(*p.NextID); displaced != nil {
				displaced.PreviousID = nil
			}
		}
	}
	if nextID != nil {
		n := active(*nextID)
		if n.PreviousID != nil && *n.PreviousID != id {
			if displaced := active(*n.PreviousID); displaced != nil {
				displaced.NextID = nil
			}
		}
	}

	node.PreviousID = copyID(previousID)
	node.NextID = copyID(nextID)
	if previousID != nil {
		active(*previousID).NextID = copyID(&id)
	}
	if nextID != nil {
		active(*nextID).PreviousID = copyID(&id)
	}
	if ownerID != nil {
		node.OwnerID = *ownerID
	}
	return nil
}

func (m *MockCommentRepository) reaches(start, target int64, step func(*models.Comment) *int64) bool {
	visited := make(map[int64]bool)
	cur := start
	for {
		if cur == target {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		c, ok := m.Comments[cur]
		if !ok || c.Deleted {
			return false
		}
		next := step(c)
		if next == nil {
			return false
		}
		cur = *next
	}
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	c, ok := m.Comments[id]
	if !ok || c.Deleted {
		return &models.NotFoundError{Kind: "comment", ID: id}
	}
	c.Deleted = true
	return nil
}

func (m *MockCommentRepository) Retrieve(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if c, ok := m.Comments[id]; ok {
		c.Deleted = false
	}
	return nil
}

func (m *MockCommentRepository) RetrieveAll(ctx context.Context) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, c := range m.Comments {
		c.Deleted = false
	}
	return nil
}

func (m *MockCommentRepository) Page(ctx context.Context, p repository.PageRequest) ([]models.Comment, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	column, err := repository.CommentSortFields.Resolve(p.SortField)
	if err != nil {
		return nil, err
	}

	var active []models.Comment
	for _, c := range m.Comments {
		if !c.Deleted {
			active = append(active, *c)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		var less bool
		switch column {
		case "content":
			less = active[i].Content < active[j].Content
		case "owner_id":
			less = active[i].OwnerID < active[j].OwnerID
		default:
			less = active[i].ID < active[j].ID
		}
		if p.Descending {
			return !less
		}
		return less
	})

	return pageSlice(active, p), nil
}

func (m *MockCommentRepository) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, c := range m.Comments {
		if !c.Deleted {
			count++
		}
	}
	return count, nil
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	Posts    map[int64]*models.Post
	NextID   int64
	FailWith error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		Posts:  make(map[int64]*models.Post),
		NextID: 1,
	}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	id := m.NextID
	m.NextID++
	stored := *post
	stored.ID = id
	stored.Deleted = false
	m.Posts[id] = &stored

	post.ID = id
	return id, nil
}

func (m *MockPostRepository) GetActive(ctx context.Context, id int64) (*models.Post, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	p, ok := m.Posts[id]
	if !ok || p.Deleted {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	existing, ok := m.Posts[post.ID]
	if !ok || existing.Deleted {
		return &models.NotFoundError{Kind: "post", ID: post.ID}
	}
	existing.Title = post.Title
	existing.Body = post.Body
	existing.TopicID = post.TopicID
	existing.UpdateTime = post.UpdateTime
	return nil
}

func (m *MockPostRepository) SoftDelete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	p, ok := m.Posts[id]
	if !ok || p.Deleted {
		return &models.NotFoundError{Kind: "post", ID: id}
	}
	p.Deleted = true
	return nil
}

func (m *MockPostRepository) Retrieve(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if p, ok := m.Posts[id]; ok {
		p.Deleted = false
	}
	return nil
}

func (m *MockPostRepository) RetrieveAll(ctx context.Context) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, p := range m.Posts {
		p.Deleted = false
	}
	return nil
}

func (m *MockPostRepository) Page(ctx context.Context, p repository.PageRequest, filters ...repository.Filter) ([]models.Post, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	column, err := repository.PostSortFields.Resolve(p.SortField)
	if err != nil {
		return nil, err
	}

	var active []models.Post
	for _, post := range m.Posts {
		if post.Deleted {
			continue
		}
		if postMatches(post, filters) {
			active = append(active, *post)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		var less bool
		switch column {
		case "user_id":
			less = active[i].UserID < active[j].UserID
		case "title":
			less = strings.Compare(active[i].Title, active[j].Title) < 0
		case "topic_id":
			less = active[i].TopicID < active[j].TopicID
		case "create_time":
			less = active[i].CreateTime.Before(active[j].CreateTime)
		case "update_time":
			less = active[i].UpdateTime.Before(active[j].UpdateTime)
		default:
			less = active[i].ID < active[j].ID
		}
		if p.Descending {
			return !less
		}
		return less
	})

	return pageSlice(active, p), nil
}

func (m *MockPostRepository) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, p := range m.Posts {
		if !p.Deleted {
			count++
		}
	}
	return count, nil
}

func postMatches(post *models.Post, filters []repository.Filter) bool {
	for _, f := range filters {
		if !f.Present() {
			continue
		}
		var v any
		switch f.Column() {
		case "user_id":
			v = post.UserID
		case "title":
			v = post.Title
		case "topic_id":
			v = post.TopicID
		default:
			continue
		}
		if !f.Matches(v) {
			return false
		}
	}
	return true
}

func pageSlice[T any](items []T, p repository.PageRequest) []T {
	start := p.Page * p.Size
	if start >= len(items) {
		return nil
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func copyID(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
