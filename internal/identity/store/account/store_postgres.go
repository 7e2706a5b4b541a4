package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists accounts in the accounts table. Email uniqueness is
// enforced by a unique index on lower(email).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, email, password_hash, avatar_ref, created_at, updated_at`

func (s *PostgresStore) CreateIfEmailAvailable(ctx context.Context, account *models.Account) error {
	if account == nil {
		return sentinel.ErrInvalidState
	}
	query := `
		INSERT INTO accounts (id, email, password_hash, avatar_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		account.ID.String(),
		account.Email,
		account.PasswordHash,
		nullString(account.AvatarRef),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("create account: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID.String())
	return scanAccount(row, "find account by id")
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
	return scanAccount(row, "find account by email")
}

// Execute locks the row with SELECT ... FOR UPDATE, applies validate and
// mutate, and writes back the mutable columns in one transaction.
func (s *PostgresStore) Execute(
	ctx context.Context,
	accountID id.AccountID,
	validate func(*models.Account) error,
	mutate func(*models.Account),
) (*models.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin account tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID.String())
	account, err := scanAccount(row, "lock account")
	if err != nil {
		return nil, err
	}
	if err := validate(account); err != nil {
		return nil, err
	}
	mutate(account)

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET avatar_ref = $2, updated_at = $3 WHERE id = $1`,
		account.ID.String(),
		nullString(account.AvatarRef),
		account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit account tx: %w", err)
	}
	return account, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, op string) (*models.Account, error) {
	var (
		rawID     string
		account   models.Account
		avatarRef sql.NullString
	)
	err := row.Scan(&rawID, &account.Email, &account.PasswordHash, &avatarRef, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	accountID, err := id.ParseAccountID(rawID)
	if err != nil {
		return nil, fmt.Errorf("%s: stored id: %w", op, err)
	}
	account.ID = accountID
	if avatarRef.Valid {
		ref := avatarRef.String
		account.AvatarRef = &ref
	}
	return &account, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
