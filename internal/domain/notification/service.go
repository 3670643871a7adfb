package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// AdminAccountID is the reserved recipient for operator notifications.
var AdminAccountID = uuid.Nil

// Service stores notifications in the notifications table. Implements Sink.
type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Notify(ctx context.Context, accountID uuid.UUID, kind Kind, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, account_id, kind, payload)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), accountID, kind, data)
	if err != nil {
		return err
	}

	log.Debug().
		Str("account_id", accountID.String()).
		Str("kind", string(kind)).
		Msg("notification stored")
	return nil
}

// ListByAccount returns stored notifications for an account, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := []Notification{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, kind, payload, is_read, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	return rows, err
}
