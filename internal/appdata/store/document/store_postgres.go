package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
)

// PostgresStore keeps one JSONB document per account in app_data.
type PostgresStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, clock: time.Now}
}

func (s *PostgresStore) Load(ctx context.Context, accountID id.AccountID) (*models.AppData, error) {
	row := s.pool.QueryRow(ctx, `SELECT document, version FROM app_data WHERE account_id = $1`, accountID.String())
	return scanDocument(row, "load app data")
}

func (s *PostgresStore) Save(ctx context.Context, accountID id.AccountID, data *models.AppData) (int64, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("encode app data: %w", err)
	}
	query := `
		INSERT INTO app_data (account_id, document, version, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (account_id) DO UPDATE SET
			document = EXCLUDED.document,
			version = app_data.version + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING version
	`
	var version int64
	if err := s.pool.QueryRow(ctx, query, accountID.String(), string(payload), s.clock()).Scan(&version); err != nil {
		return 0, fmt.Errorf("save app data: %w", err)
	}
	return version, nil
}

// Execute locks the row with SELECT ... FOR UPDATE so concurrent commands for
// one account apply one after another.
func (s *PostgresStore) Execute(ctx context.Context, accountID id.AccountID, mutate func(*models.AppData) error) (*models.AppData, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin app data tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT document, version FROM app_data WHERE account_id = $1 FOR UPDATE`, accountID.String())
	data, err := scanDocument(row, "lock app data")
	if err != nil {
		return nil, err
	}
	if err := mutate(data); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode app data: %w", err)
	}
	err = tx.QueryRow(ctx,
		`UPDATE app_data SET document = $2, version = version + 1, updated_at = $3 WHERE account_id = $1 RETURNING version`,
		accountID.String(), string(payload), s.clock(),
	).Scan(&data.Version)
	if err != nil {
		return nil, fmt.Errorf("update app data: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit app data tx: %w", err)
	}
	return data, nil
}

func scanDocument(row pgx.Row, op string) (*models.AppData, error) {
	var (
		payload []byte
		version int64
	)
	if err := row.Scan(&payload, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var data models.AppData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	data.Version = version
	return &data, nil
}
