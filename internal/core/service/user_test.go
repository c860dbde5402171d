package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewBcryptHasher(), nil, zerolog.Nop())

	user, err := repo.Create(context.Background(), &domain.User{
		Email:    "alice@example.com",
		Username: "alice",
		Bio:      "old bio",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	bio := "new bio"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Bio != "new bio" {
		t.Fatalf("bio not updated: %s", updated.Bio)
	}

	// No fields set: the current record comes back untouched.
	same, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{})
	if err != nil {
		t.Fatalf("empty update failed: %v", err)
	}
	if same.Bio != "new bio" {
		t.Fatalf("unexpected record: %+v", same)
	}

	if _, err := svc.UpdateProfile(context.Background(), "ghost", ports.UpdateProfileInput{Bio: &bio}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DisableEnable(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewBcryptHasher(), nil, zerolog.Nop())

	user, err := repo.Create(context.Background(), &domain.User{
		Email:    "bob@example.com",
		Username: "bob",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	if err := svc.DisableUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DisableUser failed: %v", err)
	}
	if repo.users[user.ID].IsActive {
		t.Fatalf("user still active after disable")
	}

	if err := svc.EnableUser(context.Background(), user.ID); err != nil {
		t.Fatalf("EnableUser failed: %v", err)
	}
	if !repo.users[user.ID].IsActive {
		t.Fatalf("user still disabled after enable")
	}

	if err := svc.DisableUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_CreateUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewBcryptHasher(), nil, zerolog.Nop())

	input := ports.AdminCreateUserInput{
		Email:     "Coach@Example.com",
		Username:  "coach",
		Password:  "Sup3rSecret",
		FirstName: "Carlos",
		LastName:  "Gracie",
		BirthDate: adultBirthDate(),
		Role:      domain.RoleAdmin,
	}

	created, err := svc.CreateUser(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.Email != "coach@example.com" {
		t.Fatalf("email not lowercased: %s", created.Email)
	}
	if created.Role != domain.RoleAdmin || !created.IsActive {
		t.Fatalf("unexpected account: %+v", created)
	}
	if created.PasswordHash == "Sup3rSecret" {
		t.Fatalf("expected password to be hashed")
	}

	bad := input
	bad.Username = "other"
	bad.Email = "other@example.com"
	bad.Role = "superuser"
	if _, err := svc.CreateUser(context.Background(), bad); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	bad = input
	bad.Username = "other"
	bad.Email = "other@example.com"
	bad.Password = "weak"
	if _, err := svc.CreateUser(context.Background(), bad); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	// Duplicate email surfaces the store's uniqueness error.
	if _, err := svc.CreateUser(context.Background(), input); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, defaultPageLimit},
		{-3, -1, 1, defaultPageLimit},
		{2, 25, 2, 25},
		{1, 1000, 1, maxPageLimit},
	}
	for _, tc := range cases {
		page, limit := normalizePage(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
