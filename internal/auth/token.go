package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
)

var ErrInvalidToken = errors.New("invalid_token")

// Tokens issues and verifies the bearer tokens of authenticated callers.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(c caller.Caller) (string, error) {
	if !c.Authenticated() {
		return "", errors.New("cannot issue token for anonymous caller")
	}

	now := t.now()
	claims := jwt.MapClaims{
		"sub":        c.UserID,
		"businessId": c.BusinessID,
		"staffId":    c.StaffID,
		"role":       c.Kind.String(),
		"exp":        now.Add(t.ttl).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (caller.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return caller.Caller{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return caller.Caller{}, ErrInvalidToken
	}

	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return caller.Caller{}, ErrInvalidToken
	}
	businessID, _ := claims["businessId"].(float64)
	staffID, _ := claims["staffId"].(float64)
	role, _ := claims["role"].(string)

	c := caller.Caller{
		Kind:       caller.ParseKind(role),
		UserID:     uint(userID),
		BusinessID: uint(businessID),
		StaffID:    uint(staffID),
	}

	switch c.Kind {
	case caller.Owner:
		if c.BusinessID == 0 {
			return caller.Caller{}, ErrInvalidToken
		}
	case caller.Staff:
		if c.BusinessID == 0 || c.StaffID == 0 {
			return caller.Caller{}, ErrInvalidToken
		}
	case caller.Customer:
	default:
		return caller.Caller{}, ErrInvalidToken
	}

	return c, nil
}
