package contact

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

func TestCreateAndList(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, MessageInput{Name: "Lina", Email: "lina@example.com", Message: "Disponible samedi ?"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, MessageInput{Name: "Nora", Email: "nora@example.com", Message: "Tarif mariée ?"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Nora", list[0].Name)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())

	_, err := svc.Create(context.Background(), MessageInput{Name: "Lina", Email: "lina@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), MessageInput{Name: "Lina", Email: "pas-un-email", Message: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPgInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO contact_messages").
		WithArgs(pgxmock.AnyArg(), "Lina", "lina@example.com", "Bonjour").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	svc := NewService(NewPgRepository(mock), logging.Discard())
	msg, err := svc.Create(context.Background(), MessageInput{Name: "Lina", Email: "lina@example.com", Message: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, now, msg.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListIsCapped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM contact_messages").
		WithArgs(MaxListedMessages).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "message", "created_at"}).
			AddRow(uuid.New(), "Lina", "lina@example.com", "Bonjour", now))

	list, err := NewService(NewPgRepository(mock), logging.Discard()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1000, MaxListedMessages)
	require.NoError(t, mock.ExpectationsWereMet())
}
