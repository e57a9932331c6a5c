package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guardian-ai/apiserver/internal/store"
	"github.com/guardian-ai/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users  map[string]types.User // keyed by username
	nextID int

	existsErr    error
	createErr    error
	getErr       error
	lastLoginErr error
	apiKeyErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]types.User{}, nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	if f.getErr != nil {
		return types.User{}, f.getErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if f.getErr != nil {
		return types.User{}, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	if _, ok := f.users[user.Username]; ok {
		return types.User{}, store.ErrAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	for name, u := range f.users {
		if u.ID == id {
			u.LastLogin = &at
			f.users[name] = u
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserRepo) UpdateAPIKey(ctx context.Context, username, key string) error {
	if f.apiKeyErr != nil {
		return f.apiKeyErr
	}
	u, ok := f.users[username]
	if !ok {
		return store.ErrNotFound
	}
	u.OpenAIAPIKey = key
	f.users[username] = u
	return nil
}

func (f *fakeUserRepo) GetAPIKey(ctx context.Context, username string) (string, error) {
	if f.apiKeyErr != nil {
		return "", f.apiKeyErr
	}
	u, ok := f.users[username]
	if !ok {
		return "", store.ErrNotFound
	}
	return u.OpenAIAPIKey, nil
}

func newTestUserService(repo UserRepository) *UserService {
	return NewUserService(repo, zap.NewNop())
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestUserService(repo)

	user, err := s.Register(context.Background(), "ada", "ada@example.com", "s3cret pass")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.NotEqual(t, "s3cret pass", user.PasswordHash)

	stored := repo.users["ada"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("wrong pass")))
}

func TestRegister_DuplicateSecondAttemptFails(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "ada", "other@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.Register(context.Background(), "other", "ada@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegister_RaceLostToUniqueConstraint(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = store.ErrAlreadyExists
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegister_StorageFailureIsGeneric(t *testing.T) {
	repo := newFakeUserRepo()
	repo.existsErr = errors.New("connection refused")
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	assert.ErrorIs(t, err, ErrRegistrationFailed)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	require.NoError(t, err)

	user, err := s.Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, time.Now(), *user.LastLogin, time.Minute)

	stored := repo.users["ada"]
	require.NotNil(t, stored.LastLogin)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	require.NoError(t, err)

	_, wrongPassErr := s.Login(context.Background(), "ada", "not the password")
	_, unknownUserErr := s.Login(context.Background(), "nobody", "pw")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUserErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownUserErr.Error())
}

func TestLogin_StorageFailureIsGeneric(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("disk on fire")
	s := newTestUserService(repo)

	_, err := s.Login(context.Background(), "ada", "pw")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.NotContains(t, err.Error(), "disk on fire")
}

func TestAPIKey_RoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestUserService(repo)

	_, err := s.Register(context.Background(), "ada", "ada@example.com", "pw")
	require.NoError(t, err)

	key, err := s.APIKey(context.Background(), "ada")
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, s.UpdateAPIKey(context.Background(), "ada", "sk-personal"))

	key, err = s.APIKey(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, "sk-personal", key)
}

func TestAPIKey_StorageFailureIsGeneric(t *testing.T) {
	repo := newFakeUserRepo()
	repo.apiKeyErr = errors.New("write timeout")
	s := newTestUserService(repo)

	err := s.UpdateAPIKey(context.Background(), "ada", "sk-personal")
	assert.ErrorIs(t, err, ErrUpdateFailed)
}
