package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodspec/internal/infra"
	"moodspec/internal/sqlinline"
)

// StorageKey is the fixed key the user supplied Gemini key is persisted under.
const StorageKey = "user_gemini_api_key"

// KeyStore persists the user supplied key.
type KeyStore interface {
	UserKey(ctx context.Context) (string, error)
	SetUserKey(ctx context.Context, key string) error
	DeleteUserKey(ctx context.Context) error
}

// Store keeps the user key in the Postgres integration_tokens table.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Migrate creates the token table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QCreateIntegrationTokens); err != nil {
		return fmt.Errorf("migrate integration_tokens: %w", err)
	}
	return nil
}

func (s *Store) UserKey(ctx context.Context) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, StorageKey)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetUserKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	raw, err := json.Marshal(map[string]any{"source": "user", "set_at": time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, StorageKey, key, raw)
	return err
}

func (s *Store) DeleteUserKey(ctx context.Context) error {
	_, err := s.sql.Exec(ctx, sqlinline.QDeleteIntegrationToken, StorageKey)
	return err
}

var _ KeyStore = (*Store)(nil)
