package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	claims := Claims{UserID: "u1", CompanyID: "c1", Role: RolePayroll}
	token, err := GenerateToken("test-secret", claims, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.UserID != "u1" || parsed.CompanyID != "c1" || parsed.Role != RolePayroll {
		t.Fatalf("claims did not round-trip: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestRolePermissions(t *testing.T) {
	if !(UserContext{Role: RoleAdmin}).CanApprove() {
		t.Fatal("admin must approve")
	}
	if (UserContext{Role: RolePayroll}).CanApprove() {
		t.Fatal("payroll officer must not approve")
	}
	if !(UserContext{Role: RolePayroll}).CanWrite() {
		t.Fatal("payroll officer must write")
	}
	if (UserContext{Role: RoleViewer}).CanWrite() {
		t.Fatal("viewer must not write")
	}
}
