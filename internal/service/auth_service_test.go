package service

import (
	"errors"
	"testing"

	"coilcalc/internal/models"
)

type fakeAuthRepo struct {
	createID  int
	createErr error
	user      *models.User
	getErr    error

	lastUsername string
	lastHash     string
}

func (f *fakeAuthRepo) Create(username, hash string) (int, error) {
	f.lastUsername = username
	f.lastHash = hash
	return f.createID, f.createErr
}
func (f *fakeAuthRepo) GetByUsername(username string) (*models.User, error) {
	return f.user, f.getErr
}

const testSigningKey = "test-key"

func TestAuthService_SignUp_HashesPassword(t *testing.T) {
	repo := &fakeAuthRepo{createID: 42}
	as := NewAuthService(repo, testSigningKey)

	id, err := as.SignUp("alice", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if repo.lastHash == "" || repo.lastHash == "s3cret" {
		t.Fatalf("password must be stored hashed, got %q", repo.lastHash)
	}
	if err := verifyPassword(repo.lastHash, "s3cret"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAuthService_SignUp_EmptyPasswordRejected(t *testing.T) {
	as := NewAuthService(&fakeAuthRepo{}, testSigningKey)
	if _, err := as.SignUp("alice", "   "); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	hash, err := hashPassword("s3cret")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	repo := &fakeAuthRepo{user: &models.User{ID: 7, Username: "alice", PasswordHash: hash}}
	as := NewAuthService(repo, testSigningKey)

	token, err := as.GenerateToken("alice", "s3cret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	id, err := as.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected user id 7, got %d", id)
	}
}

func TestAuthService_GenerateToken_WrongPassword(t *testing.T) {
	hash, _ := hashPassword("right")
	repo := &fakeAuthRepo{user: &models.User{ID: 7, PasswordHash: hash}}
	as := NewAuthService(repo, testSigningKey)

	if _, err := as.GenerateToken("alice", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthService_GenerateToken_UnknownUser(t *testing.T) {
	as := NewAuthService(&fakeAuthRepo{user: nil}, testSigningKey)
	if _, err := as.GenerateToken("ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ParseToken_DifferentKeyRejected(t *testing.T) {
	hash, _ := hashPassword("s3cret")
	repo := &fakeAuthRepo{user: &models.User{ID: 7, PasswordHash: hash}}
	issuer := NewAuthService(repo, "key-a")
	verifier := NewAuthService(repo, "key-b")

	token, err := issuer.GenerateToken("alice", "s3cret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected verification failure with different key")
	}
}
