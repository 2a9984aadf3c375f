package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	id "kycdid/pkg/domain"
)

// PostgresStore persists registrations in the did_registrations table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertRegistration = `
INSERT INTO did_registrations (did, address, public_key, tx_hash, explorer_url, uri, credential_types, subject, kyc_timestamp)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (did) DO UPDATE SET
    address = EXCLUDED.address,
    public_key = EXCLUDED.public_key,
    tx_hash = EXCLUDED.tx_hash,
    explorer_url = EXCLUDED.explorer_url,
    uri = EXCLUDED.uri,
    credential_types = EXCLUDED.credential_types,
    subject = EXCLUDED.subject,
    kyc_timestamp = EXCLUDED.kyc_timestamp`

func (s *PostgresStore) Save(ctx context.Context, reg *Registration) error {
	if reg == nil || reg.DID == "" {
		return fmt.Errorf("registration with a did is required")
	}
	types, err := json.Marshal(reg.CredentialTypes)
	if err != nil {
		return fmt.Errorf("marshal credential types: %w", err)
	}
	subject, err := json.Marshal(reg.Subject)
	if err != nil {
		return fmt.Errorf("marshal subject: %w", err)
	}
	_, err = s.db.ExecContext(ctx, upsertRegistration,
		reg.DID.String(), reg.Address, reg.PublicKey, reg.TxHash, reg.ExplorerURL, reg.URI,
		types, subject, reg.KYCTimestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

const selectRegistration = `
SELECT did, address, public_key, tx_hash, explorer_url, uri, credential_types, subject, kyc_timestamp
FROM did_registrations
WHERE did = $1`

func (s *PostgresStore) FindByDID(ctx context.Context, did id.DID) (*Registration, error) {
	var (
		reg           Registration
		rawDID        string
		types, subjct []byte
	)
	err := s.db.QueryRowContext(ctx, selectRegistration, did.String()).Scan(
		&rawDID, &reg.Address, &reg.PublicKey, &reg.TxHash, &reg.ExplorerURL, &reg.URI,
		&types, &subjct, &reg.KYCTimestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	reg.DID = id.DID(rawDID)
	reg.KYCTimestamp = reg.KYCTimestamp.UTC()
	if err := json.Unmarshal(types, &reg.CredentialTypes); err != nil {
		return nil, fmt.Errorf("unmarshal credential types: %w", err)
	}
	if err := json.Unmarshal(subjct, &reg.Subject); err != nil {
		return nil, fmt.Errorf("unmarshal subject: %w", err)
	}
	return &reg, nil
}

var _ Store = (*PostgresStore)(nil)
