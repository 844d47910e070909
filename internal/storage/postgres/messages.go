package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

// CreateMessage checks the recipient and property exist, then inserts the message.
func (s *Store) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	var recipient, property bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1),
		       EXISTS (SELECT 1 FROM properties WHERE id = $2)`, m.RecipientID, m.PropertyID).Scan(&recipient, &property)
	if err != nil {
		return models.Message{}, fmt.Errorf("check message targets: %w", err)
	}
	if !recipient {
		return models.Message{}, storage.ErrRecipientNotFound
	}
	if !property {
		return models.Message{}, storage.ErrPropertyNotFound
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, recipient_id, property_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at`, m.SenderID, m.RecipientID, m.PropertyID, m.Body).Scan(&m.ID, &m.SentAt)
	if err != nil {
		// recipient or property removed between the check and the insert
		if pgCode(err) == codeForeignKeyViolation {
			return models.Message{}, storage.ErrNotFound
		}
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// Conversation returns the messages between a and b on one property, oldest first.
func (s *Store) Conversation(ctx context.Context, propertyID, a, b int64) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, property_id, message, sent_at
		FROM messages
		WHERE property_id = $1
		  AND ((sender_id = $2 AND recipient_id = $3) OR (sender_id = $3 AND recipient_id = $2))
		ORDER BY sent_at ASC, id ASC`, propertyID, a, b)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.PropertyID, &m.Body, &m.SentAt)
		return m, err
	})
}
