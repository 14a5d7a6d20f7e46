package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ertis-service/backend/internal/models"
)

func TestIssueAndParseUserToken(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret"), TTL: time.Minute}
	token, err := issuer.Issue("citizen1", 7, models.RoleCitizen, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != models.RoleCitizen {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.EmployeeID != nil {
		t.Fatalf("citizen token must not carry an employee id: %v", *claims.EmployeeID)
	}
}

func TestIssueAndParseEmployeeToken(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret"), TTL: time.Minute}
	employeeID := int64(12)
	token, err := issuer.Issue("emp1", 0, models.RoleEmployee, &employeeID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.EmployeeID == nil || *claims.EmployeeID != 12 {
		t.Fatalf("expected employee id 12, got %v", claims.EmployeeID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret"), TTL: -time.Minute}
	token, err := issuer.Issue("citizen1", 7, models.RoleCitizen, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret"), TTL: time.Minute}
	token, err := issuer.Issue("citizen1", 7, models.RoleCitizen, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := TokenIssuer{Secret: []byte("other-secret"), TTL: time.Minute}
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := TokenIssuer{Secret: []byte("test-secret"), TTL: time.Minute}
	if _, err := issuer.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed(models.RoleAdmin, models.RoleCitizen, models.RoleAdmin) {
		t.Fatal("admin should be allowed")
	}
	if Allowed(models.RoleEmployee, models.RoleCitizen, models.RoleAdmin) {
		t.Fatal("employee should not be allowed")
	}
	if Allowed(models.RoleCitizen) {
		t.Fatal("empty required set should deny")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}
