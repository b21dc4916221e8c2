package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
// Tokens are encrypted with AES-256-GCM before write and decrypted after read.
type AccountRepo struct {
	db     *DB
	cipher tokenCipher
}

// NewAccountRepo creates a new AccountRepo. key must be 32 bytes for AES-256-GCM,
// or nil to disable account storage (all operations will return ErrEncryptionKeyNotSet).
func NewAccountRepo(db *DB, key []byte) *AccountRepo {
	return &AccountRepo{db: db, cipher: tokenCipher{key: key}}
}

const accountColumns = `id, login, avatar_url, api_url, token, is_active, added_at`

// Save inserts the account or, when the login already exists, replaces its
// profile and token. The active flag of an existing account is left as is.
func (r *AccountRepo) Save(ctx context.Context, account model.Account) error {
	encrypted, err := r.cipher.encrypt(account.Token)
	if err != nil {
		return err
	}

	addedAt := account.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO accounts (login, avatar_url, api_url, token, is_active, added_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT (login) DO UPDATE SET
			avatar_url = excluded.avatar_url,
			api_url    = excluded.api_url,
			token      = excluded.token`

	_, err = r.db.Writer.ExecContext(ctx, query,
		account.Login, account.AvatarURL, account.APIURL, encrypted, addedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save account %s: %w", account.Login, err)
	}
	return nil
}

// Get returns the account with the given login.
func (r *AccountRepo) Get(ctx context.Context, login string) (*model.Account, error) {
	if r.cipher.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE login = ?`
	account, err := r.scanAccount(r.db.Reader.QueryRowContext(ctx, query, login))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account %s: %w", login, driven.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", login, err)
	}
	return account, nil
}

// GetActive returns the active account, or nil, nil if none is active.
func (r *AccountRepo) GetActive(ctx context.Context) (*model.Account, error) {
	if r.cipher.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_active = 1`
	account, err := r.scanAccount(r.db.Reader.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active account: %w", err)
	}
	return account, nil
}

// SetActive marks the account with the given login as the only active one.
func (r *AccountRepo) SetActive(ctx context.Context, login string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set active: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("clear active account: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE accounts SET is_active = 1 WHERE login = ?`, login)
	if err != nil {
		return fmt.Errorf("activate account %s: %w", login, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("activate account %s: %w", login, driven.ErrAccountNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set active: %w", err)
	}
	return nil
}

// List returns all accounts ordered by login.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	if r.cipher.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY login`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// Delete removes the account with the given login.
func (r *AccountRepo) Delete(ctx context.Context, login string) error {
	result, err := r.db.Writer.ExecContext(ctx, `DELETE FROM accounts WHERE login = ?`, login)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", login, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete account %s: %w", login, driven.ErrAccountNotFound)
	}
	return nil
}

func (r *AccountRepo) scanAccount(s scanner) (*model.Account, error) {
	var account model.Account
	var encrypted, addedAt string
	var active int

	err := s.Scan(&account.ID, &account.Login, &account.AvatarURL, &account.APIURL, &encrypted, &active, &addedAt)
	if err != nil {
		return nil, err
	}

	account.Token, err = r.cipher.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt token for %s: %w", account.Login, err)
	}
	account.IsActive = active == 1

	account.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, fmt.Errorf("parse added_at: %w", err)
	}

	return &account, nil
}
