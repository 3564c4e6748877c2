package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ProviderToken представляє відповідь token endpoint Spotify
type ProviderToken struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	TokenType    string
	ExpiresIn    int64
}

// spotifyTokenProvider реалізація TokenProvider поверх golang.org/x/oauth2
type spotifyTokenProvider struct {
	oauth      *oauth2.Config
	client     *clientcredentials.Config
	httpClient *http.Client
}

// NewSpotifyTokenProvider створює клієнт token endpoint з Basic автентифікацією
func NewSpotifyTokenProvider(settings SpotifySettings, httpClient *http.Client) TokenProvider {
	if httpClient == nil {
		timeout := settings.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   settings.AuthURL,
		TokenURL:  settings.TokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	return &spotifyTokenProvider{
		oauth: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			RedirectURL:  settings.RedirectURI,
			Scopes:       settings.scopes(),
			Endpoint:     endpoint,
		},
		client: &clientcredentials.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			TokenURL:     settings.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL формує URL сторінки авторизації Spotify; state несе ID користувача
func (p *spotifyTokenProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// ExchangeCode обмінює authorization code на токени (grant_type=authorization_code)
func (p *spotifyTokenProvider) ExchangeCode(ctx context.Context, code string) (*ProviderToken, error) {
	logrus.WithFields(logrus.Fields{
		"code":         maskSecret(code),
		"redirect_uri": p.oauth.RedirectURL,
		"token_url":    p.oauth.Endpoint.TokenURL,
	}).Info("Exchanging Spotify authorization code")

	tok, err := p.oauth.Exchange(p.withClient(ctx), code)
	if err != nil {
		return nil, classifyTokenError(StepExchange, err)
	}

	return providerTokenFrom(tok), nil
}

// RefreshToken отримує новий access token (grant_type=refresh_token)
func (p *spotifyTokenProvider) RefreshToken(ctx context.Context, refreshToken string) (*ProviderToken, error) {
	src := p.oauth.TokenSource(p.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})

	tok, err := src.Token()
	if err != nil {
		return nil, classifyTokenError(StepRefresh, err)
	}

	return providerTokenFrom(tok), nil
}

// ClientToken отримує токен застосунку (grant_type=client_credentials) без кешування
func (p *spotifyTokenProvider) ClientToken(ctx context.Context) (string, error) {
	tok, err := p.client.Token(p.withClient(ctx))
	if err != nil {
		return "", classifyTokenError(StepClientToken, err)
	}
	return tok.AccessToken, nil
}

func (p *spotifyTokenProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// classifyTokenError відрізняє відмову провайдера від недоступності
func classifyTokenError(step string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		logrus.WithFields(logrus.Fields{
			"step":        step,
			"status_code": status,
			"error_code":  retrieveErr.ErrorCode,
		}).Warn("Spotify token endpoint returned error")

		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return stepError(step, ErrUpstreamUnavailable, err)
		}
		return stepError(step, ErrUpstreamAuth, err)
	}

	logrus.WithError(err).WithField("step", step).Warn("Spotify token endpoint unreachable")
	return stepError(step, ErrUpstreamUnavailable, err)
}

func providerTokenFrom(tok *oauth2.Token) *ProviderToken {
	token := &ProviderToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    expiresInFrom(tok),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}
	return token
}

// expiresInFrom повертає expires_in з відповіді провайдера в секундах
func expiresInFrom(tok *oauth2.Token) int64 {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}

	if !tok.Expiry.IsZero() {
		return int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	return 0
}
