package token

import (
	"errors"
	"testing"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService("test-secret", "test-issuer")

	tok, err := svc.Issue("room-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if tok == "" {
		t.Fatal("Issue() returned empty token")
	}

	if err := svc.Validate(tok, "room-1"); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestService_ValidateRejectsOtherRoom(t *testing.T) {
	svc := NewService("test-secret", "test-issuer")

	tokA, err := svc.Issue("room-a")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := svc.Validate(tokA, "room-b"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate(tokA, room-b) error = %v, want ErrInvalidToken", err)
	}
}

func TestService_ValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", "test-issuer")

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if err := svc.Validate(tok, "room-1"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestService_ValidateRejectsForeignSecret(t *testing.T) {
	a := NewService("secret-a", "test-issuer")
	b := NewService("secret-b", "test-issuer")

	tok, err := a.Issue("room-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := b.Validate(tok, "room-1"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() under foreign secret error = %v, want ErrInvalidToken", err)
	}
}
