// Package contact stores messages sent through the public contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

var ErrValidation = errors.New("validation failed")

// MaxListedMessages caps the admin message list. Older messages past the cap
// are not returned.
const MaxListedMessages = 1000

type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Repository interface {
	Insert(ctx context.Context, m Message) (*Message, error)
	List(ctx context.Context) ([]Message, error)
}

type Service struct {
	repo   Repository
	logger *logging.Logger
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, in MessageInput) (*Message, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	body := strings.TrimSpace(in.Message)
	if name == "" || email == "" || body == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	created, err := s.repo.Insert(ctx, Message{ID: uuid.New(), Name: name, Email: email, Message: body})
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	s.logger.Info("contact message received", "message_id", created.ID)
	return created, nil
}

// List returns messages newest first.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	if len(list) >= MaxListedMessages {
		s.logger.Warn("contact message list truncated", "limit", MaxListedMessages)
	}
	return list, nil
}

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, m Message) (*Message, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`, m.ID, m.Name, m.Email, m.Message).Scan(&m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgRepository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, MaxListedMessages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// MemoryRepository is an in-process Repository for tests.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Insert(_ context.Context, msg Message) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *MemoryRepository) List(context.Context) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.messages)
	slices.Reverse(out)
	if out == nil {
		out = []Message{}
	}
	return out, nil
}
