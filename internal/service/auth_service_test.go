package service

import (
	"context"
	"testing"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	byEmail map[string]*entity.AdminUser
	created []*entity.AdminUser
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *entity.AdminUser) error {
	f.created = append(f.created, admin)
	if f.byEmail == nil {
		f.byEmail = make(map[string]*entity.AdminUser)
	}
	f.byEmail[admin.Email] = admin
	return nil
}

func (f *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	return f.byEmail[email], nil
}

func seededAdminRepo(t *testing.T, email, password string) *fakeAdminRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeAdminRepo{byEmail: map[string]*entity.AdminUser{
		email: {
			Id:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			FullName:     "Test Admin",
		},
	}}
}

func TestLoginSuccess(t *testing.T) {
	repo := seededAdminRepo(t, "admin@example.com", "s3cret")
	svc := NewAuthService(repo, "test-signing-key")

	res, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret",
	})

	require.NoError(t, err)
	assert.Equal(t, "Test Admin", res.FullName)
	require.NotEmpty(t, res.AccessToken)

	// The token verifies against the same secret and carries the admin id.
	token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.NotEmpty(t, claims["admin_id"])
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeAdminRepo{}, "test-signing-key")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := seededAdminRepo(t, "admin@example.com", "s3cret")
	svc := NewAuthService(repo, "test-signing-key")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})

	assert.Error(t, err)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &fakeAdminRepo{}
	svc := NewAuthService(repo, "test-signing-key")

	err := svc.Register(context.Background(), &dto.RegisterAdminRequest{
		Email:    "New@Example.com",
		Password: "s3cret",
		FullName: "New Admin",
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "new@example.com", created.Email)
	assert.NotEqual(t, "s3cret", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := seededAdminRepo(t, "admin@example.com", "s3cret")
	svc := NewAuthService(repo, "test-signing-key")

	err := svc.Register(context.Background(), &dto.RegisterAdminRequest{
		Email:    "admin@example.com",
		Password: "another",
		FullName: "Dup",
	})

	assert.Error(t, err)
}
