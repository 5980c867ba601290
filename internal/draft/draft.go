// Package draft carries a booking in progress between the public
// booking steps as a signed, expiring token.
package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const audience = "booking-draft"

var ErrInvalidDraft = errors.New("invalid booking draft")

// BookingDraft is the customer's selection before contact details.
type BookingDraft struct {
	BusinessID uint   `json:"business_id"`
	ServiceID  uint   `json:"service_id"`
	StaffID    uint   `json:"staff_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

func (d BookingDraft) Complete() bool {
	return d.BusinessID != 0 && d.ServiceID != 0 && d.StaffID != 0 && d.Date != "" && d.Time != ""
}

type draftClaims struct {
	BookingDraft
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs d and returns the token with its expiry.
func (s *Signer) Issue(d BookingDraft) (string, time.Time, error) {
	if !d.Complete() {
		return "", time.Time{}, ErrInvalidDraft
	}

	now := s.now()
	exp := now.Add(s.ttl)

	claims := draftClaims{
		BookingDraft: d,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign draft: %w", err)
	}
	return token, exp, nil
}

// Parse verifies the token and returns the draft and its id. Tampered,
// malformed or expired tokens all yield ErrInvalidDraft.
func (s *Signer) Parse(token string) (BookingDraft, string, error) {
	var claims draftClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return BookingDraft{}, "", ErrInvalidDraft
	}
	if !claims.BookingDraft.Complete() || claims.ID == "" {
		return BookingDraft{}, "", ErrInvalidDraft
	}

	return claims.BookingDraft, claims.ID, nil
}
