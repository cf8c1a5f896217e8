package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/dmitrijs2005/newsreader/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps the session in the session_kv table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Session, error) {
	token, err := getValue(ctx, s.db, keyToken)
	if err != nil {
		return models.Session{}, err
	}
	if len(token) == 0 {
		return models.Session{}, nil
	}

	out := models.Session{Token: string(token)}

	raw, err := getValue(ctx, s.db, keyUser)
	if err != nil {
		return models.Session{}, err
	}
	if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return models.Session{}, fmt.Errorf("failed to decode stored user: %w", err)
		}
		out.User = &u
	}
	return out, nil
}

// Save replaces the stored session atomically. An unauthenticated session
// is equivalent to Clear.
func (s *SQLiteStore) Save(ctx context.Context, sess models.Session) error {
	sess = sess.Normalize()
	if !sess.Authenticated() {
		return s.Clear(ctx)
	}

	var user []byte
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		user = b
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := setValue(ctx, tx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		if user == nil {
			return deleteValue(ctx, tx, keyUser)
		}
		return setValue(ctx, tx, keyUser, user)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_kv WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func getValue(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func setValue(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session_kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func deleteValue(ctx context.Context, db dbx.DBTX, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}
