package keyValue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"incordes-client/internal/database"

	"go.uber.org/zap"
)

// SQLStore keeps values in the kv table created by database.Setup.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
	sugar   *zap.SugaredLogger
}

func NewSQLStore(db *sql.DB, dialect database.Dialect, sugar *zap.SugaredLogger) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, sugar: sugar}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	s.sugar.Debugf("Getting value of key [%s] from %s", key, s.dialect.Driver)

	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT v FROM kv WHERE k = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for key, value := range values {
		s.sugar.Debugf("Setting value of key [%s] in %s", key, s.dialect.Driver)
		if _, err := tx.ExecContext(ctx, s.dialect.Upsert(), key, value); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.sugar.Error(rbErr)
			}
			return fmt.Errorf("failed to set key [%s]: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, key := range keys {
		s.sugar.Debugf("Deleting key [%s] from %s", key, s.dialect.Driver)
		if _, err := tx.ExecContext(ctx, s.dialect.Rebind("DELETE FROM kv WHERE k = ?"), key); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.sugar.Error(rbErr)
			}
			return fmt.Errorf("failed to delete key [%s]: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
