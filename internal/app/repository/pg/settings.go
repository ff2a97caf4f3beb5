package pg

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"ytdl-bot/internal/app/errors"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS settings (
    user_id    BIGINT PRIMARY KEY,
    method     TEXT NOT NULL,
    resolution TEXT NOT NULL
);`

// SettingsDB is the postgres settings backend, selected with
// DB_BACKEND=postgres for multi-instance deployments.
type SettingsDB struct {
	db *sql.DB
}

func NewSettingsDB(dsn string) (*SettingsDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create settings table")
	}
	return &SettingsDB{db: db}, nil
}

func (sdb *SettingsDB) Get(ctx context.Context, chatID int64) (model.UserSettings, error) {
	settings := model.DefaultSettings(chatID)

	query := `SELECT method, resolution FROM settings WHERE user_id = $1`
	err := sdb.db.QueryRowContext(ctx, query, chatID).Scan(&settings.Method, &settings.Resolution)
	if err == sql.ErrNoRows {
		insertSQL := `INSERT INTO settings (user_id, method, resolution) VALUES ($1, $2, $3)
		              ON CONFLICT (user_id) DO NOTHING`
		if _, err := sdb.db.ExecContext(ctx, insertSQL, chatID, settings.Method, settings.Resolution); err != nil {
			return settings, errors.Wrap(err, "failed to create default settings")
		}
		return settings, nil
	}
	if err != nil {
		return settings, errors.Wrap(err, "settings scan failed")
	}
	return settings, nil
}

func (sdb *SettingsDB) Set(ctx context.Context, chatID int64, key, value string) error {
	var upsertSQL string
	switch key {
	case repository.SettingMethod:
		if !model.ValidSendMethod(value) {
			return errors.Newf("unknown send method %q", value)
		}
		upsertSQL = `INSERT INTO settings (user_id, method, resolution) VALUES ($1, $2, $3)
		             ON CONFLICT (user_id) DO UPDATE SET method = EXCLUDED.method`
		defaults := model.DefaultSettings(chatID)
		_, err := sdb.db.ExecContext(ctx, upsertSQL, chatID, value, defaults.Resolution)
		return errors.Wrap(err, "failed to set method")
	case repository.SettingResolution:
		if !model.ValidResolution(value) {
			return errors.Newf("unknown resolution %q", value)
		}
		upsertSQL = `INSERT INTO settings (user_id, method, resolution) VALUES ($1, $2, $3)
		             ON CONFLICT (user_id) DO UPDATE SET resolution = EXCLUDED.resolution`
		defaults := model.DefaultSettings(chatID)
		_, err := sdb.db.ExecContext(ctx, upsertSQL, chatID, defaults.Method, value)
		return errors.Wrap(err, "failed to set resolution")
	default:
		return errors.Newf("unknown settings key %q", key)
	}
}

func (sdb *SettingsDB) Close() error {
	return sdb.db.Close()
}
