package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"seekan/internal/domain"
)

// The global configuration lives under a single fixed key.
const settingsKey = "global"

func (db *DB) GetSettingsRaw(ctx context.Context) (json.RawMessage, error) {
	var payload []byte
	err := db.Pool.QueryRow(ctx, `SELECT payload FROM settings WHERE key=$1`, settingsKey).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		// First read seeds the defaults.
		def, merr := json.Marshal(domain.DefaultSettings())
		if merr != nil {
			return nil, merr
		}
		if perr := db.PutSettingsRaw(ctx, def); perr != nil {
			return nil, perr
		}
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (db *DB) PutSettingsRaw(ctx context.Context, payload json.RawMessage) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO settings (key, payload)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, settingsKey, []byte(payload))
	return err
}

func (db *DB) GetSettings(ctx context.Context) (domain.Settings, error) {
	out := domain.DefaultSettings()
	raw, err := db.GetSettingsRaw(ctx)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
