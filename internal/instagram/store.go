package instagram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
)

type TokenStore interface {
	Get(ctx context.Context, userID string) (*Token, error)
	Upsert(ctx context.Context, tok Token) error
	Delete(ctx context.Context, userID string) error
}

type PgTokenStore struct {
	pool db.Querier
}

func NewPgTokenStore(pool db.Querier) *PgTokenStore {
	return &PgTokenStore{pool: pool}
}

func (s *PgTokenStore) Get(ctx context.Context, userID string) (*Token, error) {
	var t Token
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, access_token, token_type, expires_at, created_at
		FROM instagram_tokens
		WHERE user_id = $1
	`, userID).Scan(&t.UserID, &t.AccessToken, &t.TokenType, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("get instagram token: %w", err)
	}
	return &t, nil
}

func (s *PgTokenStore) Upsert(ctx context.Context, tok Token) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO instagram_tokens (user_id, access_token, token_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    token_type = EXCLUDED.token_type,
		    expires_at = EXCLUDED.expires_at,
		    created_at = now()
	`, tok.UserID, tok.AccessToken, tok.TokenType, tok.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert instagram token: %w", err)
	}
	return nil
}

func (s *PgTokenStore) Delete(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM instagram_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete instagram token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// MemoryTokenStore is an in-process TokenStore for tests.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]Token
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]Token)}
}

func (s *MemoryTokenStore) Get(_ context.Context, userID string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[userID]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &t, nil
}

func (s *MemoryTokenStore) Upsert(_ context.Context, tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok.UserID] = tok
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[userID]; !ok {
		return ErrTokenNotFound
	}
	delete(s.tokens, userID)
	return nil
}
