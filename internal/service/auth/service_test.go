package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/pkg/auth"
	"github.com/newsai/admin-api/pkg/errors"
	"github.com/newsai/admin-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User

	failureRecorded int
	lastLockedUntil *time.Time
	successRecorded int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter *model.UserFilter) ([]*model.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Blocked = blocked
	return nil
}

func (f *fakeUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error) {
	return len(ids), nil
}

func (f *fakeUserRepo) RecordLoginFailure(ctx context.Context, id uuid.UUID, failures int, lockedUntil *time.Time) error {
	u := f.users[id]
	u.FailedLogins = failures
	u.LockedUntil = lockedUntil
	f.failureRecorded++
	f.lastLockedUntil = lockedUntil
	return nil
}

func (f *fakeUserRepo) RecordLoginSuccess(ctx context.Context, id uuid.UUID) error {
	u := f.users[id]
	u.FailedLogins = 0
	u.LockedUntil = nil
	f.successRecorded++
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) UpdateEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return nil
}

func (f *fakeUserRepo) Subscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	return nil
}

func (f *fakeUserRepo) Unsubscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	return nil
}

func (f *fakeUserRepo) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*model.Category, error) {
	return nil, nil
}

func testTokens() *auth.TokenService {
	return auth.NewTokenService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role model.UserRole) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	u := &model.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserStatusActive,
	}
	u.ID = uuid.New()
	repo.users[u.ID] = u
	return u
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	svc := NewService(repo, testTokens(), nil)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "editor@newsai.io",
		Password: "correct-horse",
	}, auth.AudienceAdmin)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.PasswordHash)
	assert.Equal(t, 1, repo.successRecorded)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "editor@newsai.io",
		Password: "wrong",
	}, auth.AudienceAdmin)
	require.Error(t, err)

	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, 1, repo.failureRecorded)
	assert.Nil(t, repo.lastLockedUntil)
}

func TestLoginLocksAfterFiveFailures(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	svc := NewService(repo, testTokens(), nil)

	req := &model.LoginRequest{Email: "editor@newsai.io", Password: "wrong"}
	for i := 0; i < 4; i++ {
		_, err := svc.Login(context.Background(), req, auth.AudienceAdmin)
		require.Error(t, err)
	}
	assert.Nil(t, u.LockedUntil)

	// Fifth failure locks the account
	_, err := svc.Login(context.Background(), req, auth.AudienceAdmin)
	require.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrLocked, appErr.Code)
	require.NotNil(t, u.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *u.LockedUntil, time.Minute)

	// Even the right password is rejected while locked
	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "editor@newsai.io",
		Password: "correct-horse",
	}, auth.AudienceAdmin)
	require.Error(t, err)
	assert.Equal(t, errors.ErrLocked, err.(*errors.AppError).Code)
}

func TestLoginExpiredLockIsIgnored(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	past := time.Now().Add(-time.Minute)
	u.LockedUntil = &past
	u.FailedLogins = 5
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "editor@newsai.io",
		Password: "correct-horse",
	}, auth.AudienceAdmin)
	assert.NoError(t, err)
}

func TestLoginBlockedUser(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "reader@newsai.io", "pw-123456", model.UserRoleReader)
	u.Blocked = true
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "reader@newsai.io",
		Password: "pw-123456",
	}, auth.AudienceReader)
	require.Error(t, err)
	assert.Equal(t, errors.ErrForbidden, err.(*errors.AppError).Code)
}

func TestLoginPendingUser(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "reader@newsai.io", "pw-123456", model.UserRoleReader)
	u.Status = model.UserStatusPending
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "reader@newsai.io",
		Password: "pw-123456",
	}, auth.AudienceReader)
	require.Error(t, err)
	assert.Equal(t, errors.ErrForbidden, err.(*errors.AppError).Code)
}

func TestAdminAreaRejectsReaders(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "reader@newsai.io", "pw-123456", model.UserRoleReader)
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "reader@newsai.io",
		Password: "pw-123456",
	}, auth.AudienceAdmin)
	require.Error(t, err)
	assert.Equal(t, errors.ErrForbidden, err.(*errors.AppError).Code)

	// The same account is fine in the reader area
	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "reader@newsai.io",
		Password: "pw-123456",
	}, auth.AudienceReader)
	assert.NoError(t, err)
}

func TestRegisterCreatesPendingReader(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testTokens(), nil)

	u, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "new@newsai.io",
		Name:     "New Reader",
		Password: "pw-123456",
	})
	require.NoError(t, err)

	assert.Equal(t, model.UserRoleReader, u.Role)
	assert.Equal(t, model.UserStatusPending, u.Status)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "dup@newsai.io", "pw-123456", model.UserRoleReader)
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "dup@newsai.io",
		Name:     "Dup",
		Password: "pw-123456",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrConflict, err.(*errors.AppError).Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	tokens := testTokens()
	svc := NewService(repo, tokens, nil)

	access, err := tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role), auth.AudienceAdmin)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.Error(t, err)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	tokens := testTokens()
	svc := NewService(repo, tokens, nil)

	refresh, err := tokens.GenerateRefreshToken(u.ID, u.Email, string(u.Role), auth.AudienceAdmin)
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "editor@newsai.io", "correct-horse", model.UserRoleEditor)
	svc := NewService(repo, testTokens(), nil)

	err := svc.ChangePassword(context.Background(), u.ID, &model.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	})
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, &model.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "brand-new-pass",
	})
	require.NoError(t, err)
	assert.True(t, security.CheckPassword(u.PasswordHash, "brand-new-pass"))
}
