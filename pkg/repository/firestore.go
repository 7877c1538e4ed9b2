package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	usersCollection    = "users"
	sessionsCollection = "sessions"
	issuesCollection   = "issues"

	// Field names
	fieldEmail     = "email"
	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Probe the connection so invalid projects or missing permissions fail
	// fast at startup instead of on the first request
	_, err = client.Collection(issuesCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		// For other errors (like NotFound for new projects), log but continue
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// SaveUser saves a user to Firestore
func (f *Firestore) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	_, err := f.client.Collection(usersCollection).Doc(user.ID.String()).Set(ctx, user)
	if err != nil {
		return goerr.Wrap(err, "failed to save user to firestore")
	}

	return nil
}

// GetUser retrieves a user by ID
func (f *Firestore) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	doc, err := f.client.Collection(usersCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user from firestore")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user")
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email address
func (f *Firestore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	iter := f.client.Collection(usersCollection).
		Where(fieldEmail, "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no user with email", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user")
	}

	return &user, nil
}

// ListUsers lists all users sorted by creation time
func (f *Firestore) ListUsers(ctx context.Context) ([]*model.User, error) {
	iter := f.client.Collection(usersCollection).
		OrderBy(fieldCreatedAt, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var user model.User
		if err := doc.DataTo(&user); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user")
		}
		users = append(users, &user)
	}

	return users, nil
}

// DeleteUser removes a user
func (f *Firestore) DeleteUser(ctx context.Context, id types.UserID) error {
	if id == "" {
		return goerr.New("user ID is empty")
	}

	// Check existence first so the caller can distinguish not-found
	if _, err := f.GetUser(ctx, id); err != nil {
		return err
	}

	if _, err := f.client.Collection(usersCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user from firestore")
	}

	return nil
}

// SaveSession saves a session to Firestore
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(sessionsCollection).Doc(session.ID.String()).Set(ctx, session)
	if err != nil {
		return goerr.Wrap(err, "failed to save session to firestore")
	}

	return nil
}

// GetSession retrieves a session by ID
func (f *Firestore) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	doc, err := f.client.Collection(sessionsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get session from firestore")
	}

	var session model.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}

	return &session, nil
}

// DeleteSession removes a session
func (f *Firestore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	if _, err := f.GetSession(ctx, id); err != nil {
		return err
	}

	if _, err := f.client.Collection(sessionsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore")
	}

	return nil
}

// PutIssue stores an issue
func (f *Firestore) PutIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}
	if issue.ID == "" {
		return goerr.New("issue ID is empty")
	}

	_, err := f.client.Collection(issuesCollection).Doc(issue.ID.String()).Set(ctx, issue)
	if err != nil {
		return goerr.Wrap(err, "failed to save issue to firestore")
	}

	return nil
}

// GetIssue retrieves an issue by ID
func (f *Firestore) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	if id == "" {
		return nil, goerr.New("issue ID is empty")
	}

	doc, err := f.client.Collection(issuesCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrIssueNotFound, "no such issue", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get issue from firestore")
	}

	var issue model.Issue
	if err := doc.DataTo(&issue); err != nil {
		return nil, goerr.Wrap(err, "failed to decode issue")
	}

	return &issue, nil
}

// ListIssues lists all issues sorted by creation time (newest first)
func (f *Firestore) ListIssues(ctx context.Context) ([]*model.Issue, error) {
	iter := f.client.Collection(issuesCollection).
		OrderBy(fieldCreatedAt, firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return decodeIssues(iter)
}

// ListIssuesByUser lists issues submitted by one user (newest first)
func (f *Firestore) ListIssuesByUser(ctx context.Context, userID types.UserID) ([]*model.Issue, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	iter := f.client.Collection(issuesCollection).
		Where(fieldUserID, "==", userID.String()).
		OrderBy(fieldCreatedAt, firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return decodeIssues(iter)
}

// DeleteIssue removes an issue
func (f *Firestore) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if id == "" {
		return goerr.New("issue ID is empty")
	}

	if _, err := f.GetIssue(ctx, id); err != nil {
		return err
	}

	if _, err := f.client.Collection(issuesCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete issue from firestore")
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func decodeIssues(iter *firestore.DocumentIterator) ([]*model.Issue, error) {
	var issues []*model.Issue
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate issues")
		}

		var issue model.Issue
		if err := doc.DataTo(&issue); err != nil {
			return nil, goerr.Wrap(err, "failed to decode issue")
		}
		issues = append(issues, &issue)
	}

	return issues, nil
}
