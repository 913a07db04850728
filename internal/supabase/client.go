package supabase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"
	"hobbyhub-client/internal/config"
)

// tokenSkew renews a session slightly before it actually expires.
const tokenSkew = 30 * time.Second

// SignInFunc exchanges an email and password for an access token and its
// lifetime in seconds.
type SignInFunc func(email, password string) (accessToken string, expiresIn int, err error)

// Authenticator signs in to Supabase auth with a password and hands out the
// session's access token, signing in again once it expires. It satisfies
// apiclient.TokenSource.
type Authenticator struct {
	signIn   SignInFunc
	email    string
	password string
	now      func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewAuthenticator(cfg *config.Config) (*Authenticator, error) {
	if !cfg.HasPasswordAuth() {
		return nil, errors.New("supabase url, key, email and password are required for sign-in")
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	signIn := func(email, password string) (string, int, error) {
		resp, err := client.Auth.SignInWithEmailPassword(email, password)
		if err != nil {
			return "", 0, err
		}
		return resp.AccessToken, resp.ExpiresIn, nil
	}
	return NewAuthenticatorWith(signIn, cfg.AuthEmail, cfg.AuthPassword), nil
}

// NewAuthenticatorWith builds an Authenticator around any sign-in call.
func NewAuthenticatorWith(signIn SignInFunc, email, password string) *Authenticator {
	return &Authenticator{
		signIn:   signIn,
		email:    email,
		password: password,
		now:      time.Now,
	}
}

func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" && a.now().Before(a.expires) {
		return a.token, nil
	}

	token, expiresIn, err := a.signIn(a.email, a.password)
	if err != nil {
		return "", fmt.Errorf("failed to sign in: %w", err)
	}
	if token == "" {
		return "", errors.New("failed to sign in: empty access token")
	}
	a.token = token
	a.expires = a.now().Add(time.Duration(expiresIn)*time.Second - tokenSkew)
	return a.token, nil
}

// Invalidate drops the cached session so the next Token call signs in again.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.expires = time.Time{}
}
