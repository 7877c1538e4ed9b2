package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu       sync.RWMutex
	users    map[types.UserID]*model.User
	sessions map[types.SessionID]*model.Session
	issues   map[types.IssueID]*model.Issue
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		users:    make(map[types.UserID]*model.User),
		sessions: make(map[types.SessionID]*model.Session),
		issues:   make(map[types.IssueID]*model.Issue),
	}
}

// SaveUser saves a user to memory
func (m *Memory) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external modifications
	userCopy := *user
	m.users[user.ID] = &userCopy

	return nil
}

// GetUser retrieves a user by ID
func (m *Memory) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
	}

	userCopy := *user
	return &userCopy, nil
}

// GetUserByEmail retrieves a user by email address
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			userCopy := *user
			return &userCopy, nil
		}
	}

	return nil, goerr.Wrap(model.ErrUserNotFound, "no user with email", goerr.V("email", email))
}

// ListUsers lists all users sorted by creation time
func (m *Memory) ListUsers(ctx context.Context) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*model.User, 0, len(m.users))
	for _, user := range m.users {
		userCopy := *user
		users = append(users, &userCopy)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// DeleteUser removes a user
func (m *Memory) DeleteUser(ctx context.Context, id types.UserID) error {
	if id == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; !exists {
		return goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
	}

	delete(m.users, id)
	return nil
}

// SaveSession saves a session to memory
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	m.sessions[session.ID] = &sessionCopy

	return nil
}

// GetSession retrieves a session by ID
func (m *Memory) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("id", id))
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// DeleteSession removes a session
func (m *Memory) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("id", id))
	}

	delete(m.sessions, id)
	return nil
}

// PutIssue stores an issue
func (m *Memory) PutIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}
	if issue.ID == "" {
		return goerr.New("issue ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	issueCopy := *issue
	m.issues[issue.ID] = &issueCopy

	return nil
}

// GetIssue retrieves an issue by ID
func (m *Memory) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	if id == "" {
		return nil, goerr.New("issue ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	issue, exists := m.issues[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrIssueNotFound, "no such issue", goerr.V("id", id))
	}

	issueCopy := *issue
	return &issueCopy, nil
}

// ListIssues lists all issues sorted by creation time (newest first)
func (m *Memory) ListIssues(ctx context.Context) ([]*model.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	issues := make([]*model.Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		issueCopy := *issue
		issues = append(issues, &issueCopy)
	}

	sortIssues(issues)
	return issues, nil
}

// ListIssuesByUser lists issues submitted by one user (newest first)
func (m *Memory) ListIssuesByUser(ctx context.Context, userID types.UserID) ([]*model.Issue, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var issues []*model.Issue
	for _, issue := range m.issues {
		if issue.UserID == userID {
			issueCopy := *issue
			issues = append(issues, &issueCopy)
		}
	}

	sortIssues(issues)
	return issues, nil
}

// DeleteIssue removes an issue
func (m *Memory) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if id == "" {
		return goerr.New("issue ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.issues[id]; !exists {
		return goerr.Wrap(model.ErrIssueNotFound, "no such issue", goerr.V("id", id))
	}

	delete(m.issues, id)
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

func sortIssues(issues []*model.Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].ID < issues[j].ID
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
}
