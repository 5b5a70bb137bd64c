package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/dbx"
	"github.com/dmitrijs2005/userkeeper/internal/models"
)

// PostgresRepository stores credentials in the user_credentials table created
// by the embedded migrations. Salt and derived key are bytea columns.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, username string, cred *models.Credential) error {
	if err := validatePut(username, cred); err != nil {
		return err
	}

	query :=
		`INSERT INTO user_credentials (username, hash, salt, rounds, hashed)
         VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO UPDATE
		 SET hash = EXCLUDED.hash, salt = EXCLUDED.salt, rounds = EXCLUDED.rounds, hashed = EXCLUDED.hashed
		 `

	_, err := r.db.ExecContext(ctx, query,
		username, cred.HashAlgorithm, cred.Salt, cred.Rounds, cred.DerivedKey)

	if err != nil {
		return storeError("db", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	if err := validateGet(username); err != nil {
		return nil, err
	}

	query :=
		`SELECT username, hash, salt, rounds, hashed FROM user_credentials
		 WHERE username = $1
		 `

	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&cred.Username, &cred.HashAlgorithm, &cred.Salt, &cred.Rounds, &cred.DerivedKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError("db", err)
	}

	return cred, nil
}

func (r *PostgresRepository) ListUsernames(ctx context.Context) ([]string, error) {
	query := `SELECT username FROM user_credentials`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("db", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeError("db", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("db", err)
	}

	return names, nil
}
