package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ertis-service/backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed token payload. EmployeeID is set only for employee
// principals; UserID is zero in that case.
type Claims struct {
	UserID     int64       `json:"user_id"`
	Role       models.Role `json:"role"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func (t TokenIssuer) Issue(subject string, userID int64, role models.Role, employeeID *int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     userID,
		Role:       role,
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t TokenIssuer) Parse(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// Allowed reports whether the caller's role is in the required set. Role
// comparison is over the closed enum, never open strings.
func Allowed(role models.Role, required ...models.Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
