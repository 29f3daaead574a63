package oidc

// Package oidc provides the federated sign-in adapter backed by an OIDC identity provider.

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

var _ ports.FederatedProvider = (*Provider)(nil)

// Provider implements ports.FederatedProvider using OIDC/OAuth2.
type Provider struct {
	config       *oauth2.Config
	httpClient   *http.Client
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	now          func() time.Time
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	// DiscoveryURL is the issuer URL, with or without the well-known suffix.
	DiscoveryURL string
	HTTPClient   *http.Client // defaults to a client with a 30s timeout
}

// DiscoveryDocument is the subset of the OIDC discovery document the provider reads.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider fetches the discovery document and builds the provider.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		now:          time.Now,
	}, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.User, error) {
	switch {
	case in.Code == "":
		return domainauth.User{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.User{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.User{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var c claims
	if p.hasOpenIDScope() {
		if c, err = p.verifyIDToken(ctx, token, in.Nonce); err != nil {
			return domainauth.User{}, fmt.Errorf("extract id_token: %w", err)
		}
	}
	if c.Subject == "" || c.Email == "" {
		ui, uiErr := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if uiErr != nil {
			return domainauth.User{}, fmt.Errorf("get user info: %w", uiErr)
		}
		var fromUI claims
		if err := ui.Claims(&fromUI); err != nil {
			return domainauth.User{}, fmt.Errorf("decode user info: %w", err)
		}
		c = c.fill(fromUI)
	}
	if c.Subject == "" {
		return domainauth.User{}, errors.New("identity provider returned no subject")
	}

	return c.user(p.now()), nil
}

// claims is the standard OIDC profile claim set.
type claims struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Nonce   string `json:"nonce"`
}

func (c claims) fill(other claims) claims {
	c.Subject = cmp.Or(c.Subject, other.Subject)
	c.Name = cmp.Or(c.Name, other.Name)
	c.Email = cmp.Or(c.Email, other.Email)
	c.Picture = cmp.Or(c.Picture, other.Picture)
	return c
}

// user maps the claims onto a federated user record. The provider subject keeps
// the identifier stable across sign-ins.
func (c claims) user(now time.Time) domainauth.User {
	name := c.Name
	if name == "" {
		name = domainauth.NameFromEmail(c.Email)
	}
	return domainauth.User{
		ID:        "google_" + c.Subject,
		Name:      name,
		Email:     c.Email,
		Avatar:    c.Picture,
		Provider:  domainauth.ProviderGoogle,
		CreatedAt: now.UTC(),
	}
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (claims, error) {
	var c claims
	rawID, err := idTokenFrom(tok)
	if err != nil {
		return c, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return c, fmt.Errorf("verify id_token: %w", err)
	}
	if err := idTok.Claims(&c); err != nil {
		return c, fmt.Errorf("parse id_token claims: %w", err)
	}
	if c.Nonce != expectedNonce {
		return c, errors.New("invalid nonce")
	}
	return c, nil
}

func (p *Provider) hasOpenIDScope() bool {
	return slices.Contains(p.config.Scopes, gooidc.ScopeOpenID)
}

func idTokenFrom(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// randomString returns a URL-safe random string of exactly n characters.
func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
