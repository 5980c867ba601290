package validators

import (
	"context"
	"net"
	"strings"
)

// Resolver is the part of *net.Resolver the domain check needs.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomains rejects sign-ups whose email domain cannot receive mail.
type EmailDomains struct {
	resolver Resolver
}

func NewEmailDomains(r Resolver) *EmailDomains {
	if r == nil {
		r = net.DefaultResolver
	}
	return &EmailDomains{resolver: r}
}

// Valid accepts a domain with an MX record, or failing that any address.
func (v *EmailDomains) Valid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := v.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := v.resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
