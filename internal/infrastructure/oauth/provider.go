// Package oauth implements the external-identity sign-in flow: building the
// provider authorization URL and exchanging the callback code for a user
// identity. Providers return only the fields the session layer needs.
package oauth

import (
	"context"
	"errors"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// UserInfo is the identity a provider reports after code exchange. Name
// fields may be empty; display-name derivation handles that downstream.
type UserInfo struct {
	Provider          string
	ProviderUserID    string
	Email             string
	FullName          string
	Name              string
	PreferredUsername string
}

type Provider interface {
	Name() string
	LoginURL(state string) string
	ExchangeCode(ctx context.Context, code string) (UserInfo, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if p != nil {
			m[p.Name()] = p
		}
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}
