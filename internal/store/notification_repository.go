package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tradex/exchange-service/internal/domain"
)

// CreateInAppNotification stores an inbox entry. Entries carrying a dedupe
// key are written at most once.
func (r *Repository) CreateInAppNotification(ctx context.Context, item domain.InAppNotification) error {
	data := item.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO in_app_notifications (id, user_id, category, type, title, body, status, data, dedupe_key, read_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	if item.DedupeKey != nil && strings.TrimSpace(*item.DedupeKey) != "" {
		query += ` ON CONFLICT (dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING`
	} else {
		item.DedupeKey = nil
	}

	_, err = r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Category,
		item.Type,
		item.Title,
		item.Body,
		item.Status,
		dataJSON,
		item.DedupeKey,
		item.ReadAt,
	)
	return err
}

// GetUserByID loads the mail-relevant fields of a user.
func (r *Repository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	query := `
        SELECT id, email, full_name, role
        FROM users
        WHERE id = $1
    `
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
