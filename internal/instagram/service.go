// Package instagram serves the gallery feed from the artist's Instagram
// account and manages the stored access token.
package instagram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

var (
	ErrNotConfigured  = errors.New("instagram app is not configured")
	ErrTokenNotFound  = errors.New("instagram token not found")
	ErrTokenExpired   = errors.New("instagram token expired")
	ErrExchangeFailed = errors.New("instagram code exchange failed")
	ErrUpstream       = errors.New("instagram api unavailable")
	ErrMissingCode    = errors.New("authorization code is required")
)

type Config struct {
	AppID       string
	AppSecret   string
	RedirectURI string
}

type Service struct {
	cfg    Config
	client *Client
	store  TokenStore
	logger *logging.Logger
	now    func() time.Time
}

func NewService(cfg Config, client *Client, store TokenStore, logger *logging.Logger) *Service {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{cfg: cfg, client: client, store: store, logger: logger, now: time.Now}
}

// AuthURL returns the page the admin visits to grant media access.
func (s *Service) AuthURL() (string, error) {
	if s.cfg.AppID == "" || s.cfg.RedirectURI == "" {
		return "", ErrNotConfigured
	}
	return s.client.AuthorizeURL(s.cfg.AppID, s.cfg.RedirectURI), nil
}

// Exchange swaps the code for a token and stores it, replacing any previous one.
func (s *Service) Exchange(ctx context.Context, code string) (*Token, error) {
	if s.cfg.AppID == "" || s.cfg.AppSecret == "" || s.cfg.RedirectURI == "" {
		return nil, ErrNotConfigured
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMissingCode
	}

	access, err := s.client.ExchangeCode(ctx, s.cfg.AppID, s.cfg.AppSecret, s.cfg.RedirectURI, code)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tok := Token{
		UserID:      AccountID,
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresAt:   now.Add(TokenLifetime),
		CreatedAt:   now,
	}
	if err := s.store.Upsert(ctx, tok); err != nil {
		return nil, err
	}
	s.logger.Info("instagram token stored", "expires_at", tok.ExpiresAt)
	return &tok, nil
}

// Posts returns up to twenty recent images and videos.
func (s *Service) Posts(ctx context.Context) ([]Post, error) {
	tok, err := s.store.Get(ctx, AccountID)
	if err != nil {
		return nil, err
	}
	if s.now().After(tok.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	posts, err := s.client.RecentMedia(ctx, tok.AccessToken)
	if err != nil {
		s.logger.Warn("instagram media fetch failed", "error", err)
		return nil, err
	}
	return posts, nil
}

func (s *Service) Revoke(ctx context.Context) error {
	if err := s.store.Delete(ctx, AccountID); err != nil {
		return err
	}
	s.logger.Info("instagram token revoked")
	return nil
}
