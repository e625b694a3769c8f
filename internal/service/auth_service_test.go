package service

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviematch/internal/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, displayName string) (*models.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, &pq.Error{Code: "23505", Constraint: "users_email_key"}
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, DisplayName: displayName}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) DisplayNames(_ context.Context, ids []int) (map[int]string, error) {
	return nil, nil
}

func TestRegister_NormalizesEmailAndIssuesToken(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "test-secret")

	user, token, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:       "  Alice@Example.COM ",
		Password:    "hunter22",
		DisplayName: "Alice",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, strconv.Itoa(user.ID), claims.Subject)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "test-secret")

	_, _, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "test-secret")
	req := models.RegisterRequest{Email: "a@b.c", Password: "pw", DisplayName: "A"}

	_, _, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, "test-secret")

	_, _, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "a@b.c", Password: "correct", DisplayName: "A",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), models.LoginRequest{Email: "A@b.c", Password: "correct"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "a@b.c", user.Email)

	_, _, err = svc.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@b.c", Password: "correct"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
