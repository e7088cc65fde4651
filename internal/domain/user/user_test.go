package user_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-gateway/internal/domain/user"
	"llm-gateway/internal/utils/platformerrors"
)

// fakeRepository keeps users in a map and mirrors the repository error
// contract (Conflict on duplicate create, NotFound on absent delete).
type fakeRepository struct {
	users map[string]*user.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*user.User)}
}

func (f *fakeRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepository) Create(ctx context.Context, usr *user.User) (*user.User, error) {
	if _, ok := f.users[usr.Username]; ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("user %q already exists", usr.Username), nil, "")
	}
	clone := *usr
	f.users[usr.Username] = &clone
	return usr, nil
}

func (f *fakeRepository) Update(ctx context.Context, usr *user.User) (*user.User, error) {
	if _, ok := f.users[usr.Username]; !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", usr.Username), nil, "")
	}
	clone := *usr
	f.users[usr.Username] = &clone
	return usr, nil
}

func (f *fakeRepository) Delete(ctx context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("user %q not found", username), nil, "")
	}
	delete(f.users, username)
	return nil
}

func errorType(t *testing.T, err error) platformerrors.ErrorType {
	t.Helper()
	var perr *platformerrors.PlatformError
	require.True(t, errors.As(err, &perr))
	return perr.GetErrorType()
}

func TestServiceAddAndConflict(t *testing.T) {
	svc := user.NewService(newFakeRepository())
	ctx := context.Background()

	created, err := svc.Add(ctx, "alice", "s3cret", true)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "s3cret", created.Password)
	assert.True(t, created.IsAdmin)

	_, err = svc.Add(ctx, "alice", "other", false)
	require.Error(t, err)
	assert.Equal(t, platformerrors.ErrorTypeConflict, errorType(t, err))
}

func TestServiceDelete(t *testing.T) {
	svc := user.NewService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, "bob", "pw", false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "bob"))

	err = svc.Delete(ctx, "bob")
	require.Error(t, err)
	assert.Equal(t, platformerrors.ErrorTypeNotFound, errorType(t, err))
}

func TestServicePartialUpdate(t *testing.T) {
	svc := user.NewService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, "carol", "old", false)
	require.NoError(t, err)

	newPassword := "new"
	updated, err := svc.Update(ctx, "carol", &newPassword, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Password)
	assert.False(t, updated.IsAdmin)

	isAdmin := true
	updated, err = svc.Update(ctx, "carol", nil, &isAdmin)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Password)
	assert.True(t, updated.IsAdmin)
}

func TestServiceUpdateUnknownUser(t *testing.T) {
	svc := user.NewService(newFakeRepository())

	password := "pw"
	updated, err := svc.Update(context.Background(), "nobody", &password, nil)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestServiceValidate(t *testing.T) {
	svc := user.NewService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, "dave", "correct", false)
	require.NoError(t, err)

	ok, err := svc.Validate(ctx, "dave", "correct")
	require.NoError(t, err)
	require.NotNil(t, ok)
	assert.Equal(t, "dave", ok.Username)

	wrong, err := svc.Validate(ctx, "dave", "incorrect")
	require.NoError(t, err)
	assert.Nil(t, wrong)

	unknown, err := svc.Validate(ctx, "eve", "whatever")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}
