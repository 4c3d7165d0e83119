package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestStore(t), testLogger)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{Username: "kasun", Email: " Kasun@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != string(models.RoleUser) {
		t.Errorf("role = %q", user.Role)
	}
	if user.Email != "kasun@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.PasswordHash == "" || strings.Contains(user.PasswordHash, "secret1") {
		t.Error("password must be stored hashed")
	}

	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "kasun", Email: "other@example.com", Password: "secret1"})
	expectErr(t, err, ErrConflict)
	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "other", Email: "kasun@example.com", Password: "secret1"})
	expectErr(t, err, ErrConflict)

	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "ab", Email: "ab@example.com", Password: "secret1"})
	expectErr(t, err, ErrValidation)
	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "abcd", Email: "not-an-email", Password: "secret1"})
	expectErr(t, err, ErrValidation)
	_, err = svc.Register(ctx, &models.RegisterRequest{Username: "abcd", Email: "abcd@example.com", Password: "123"})
	expectErr(t, err, ErrValidation)

	got, err := svc.Authenticate(ctx, &models.LoginRequest{Email: "KASUN@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated %q, want %q", got.ID, user.ID)
	}

	_, err = svc.Authenticate(ctx, &models.LoginRequest{Email: "kasun@example.com", Password: "wrong-pass"})
	expectErr(t, err, ErrUnauthorized)
	_, err = svc.Authenticate(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	expectErr(t, err, ErrUnauthorized)
}

func TestConcurrentRegistrationConflicts(t *testing.T) {
	svc := NewUserService(newTestStore(t), testLogger)
	ctx := context.Background()

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, &models.RegisterRequest{
				Username: fmt.Sprintf("same%d", i),
				Email:    "same@example.com",
				Password: "secret1",
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, ErrConflict):
			t.Errorf("duplicate registration: %v, want conflict", err)
		}
	}
	if created != 1 {
		t.Errorf("created %d accounts, want 1", created)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc := NewUserService(newTestStore(t), testLogger)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.Role != string(models.RoleAdmin) {
		t.Errorf("role = %q", first.Role)
	}

	second, err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("second seed created another account")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour, testLogger)
	user := &models.User{ID: "user-1", Role: string(models.RoleAdmin)}

	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}

	actor, err := auth.Actor(token)
	if err != nil {
		t.Fatalf("actor: %v", err)
	}
	if actor.UserID != "user-1" || actor.Role != models.RoleAdmin {
		t.Errorf("actor = %+v", actor)
	}

	other := NewAuthService("other-secret", time.Hour, testLogger)
	_, err = other.Actor(token)
	expectErr(t, err, ErrUnauthorized)

	_, err = auth.Actor("not.a.token")
	expectErr(t, err, ErrUnauthorized)

	unknownRole, err := auth.GenerateToken(&models.User{ID: "user-2", Role: "merchant"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = auth.Actor(unknownRole)
	expectErr(t, err, ErrUnauthorized)
}

func TestExpiredToken(t *testing.T) {
	auth := NewAuthService("test-secret", time.Nanosecond, testLogger)
	token, err := auth.GenerateToken(&models.User{ID: "user-1", Role: string(models.RoleUser)})
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)

	_, err = auth.Actor(token)
	expectErr(t, err, ErrUnauthorized)
}
