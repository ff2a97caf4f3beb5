package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"ytdl-bot/internal/app/errors"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS settings (
    user_id    INTEGER PRIMARY KEY,
    method     TEXT NOT NULL,
    resolution TEXT NOT NULL
);`

type SettingsDB struct {
	db *sql.DB
}

// NewSettingsDB opens (or creates) the settings database at dbFilePath.
func NewSettingsDB(dbFilePath string) (*SettingsDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open settings database")
	}
	sdb := &SettingsDB{db: db}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create settings table")
	}
	return sdb, nil
}

// NewSettingsDBWithConn wraps an existing connection, used by tests.
func NewSettingsDBWithConn(db *sql.DB) *SettingsDB {
	return &SettingsDB{db: db}
}

func (sdb *SettingsDB) Get(ctx context.Context, chatID int64) (model.UserSettings, error) {
	settings := model.DefaultSettings(chatID)

	query := `SELECT method, resolution FROM settings WHERE user_id = ?`
	row := sdb.db.QueryRowContext(ctx, query, chatID)
	err := row.Scan(&settings.Method, &settings.Resolution)
	if err == sql.ErrNoRows {
		insertSQL := `INSERT INTO settings (user_id, method, resolution) VALUES (?, ?, ?)`
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
	if err := validate(key, value); err != nil {
		return err
	}
	// Ensure the row exists first so the column update always lands.
	if _, err := sdb.Get(ctx, chatID); err != nil {
		return err
	}

	var updateSQL string
	switch key {
	case repository.SettingMethod:
		updateSQL = `UPDATE settings SET method = ? WHERE user_id = ?`
	case repository.SettingResolution:
		updateSQL = `UPDATE settings SET resolution = ? WHERE user_id = ?`
	}
	if _, err := sdb.db.ExecContext(ctx, updateSQL, value, chatID); err != nil {
		return errors.Wrapf(err, "failed to set %s for user %d", key, chatID)
	}
	return nil
}

func (sdb *SettingsDB) Close() error {
	return sdb.db.Close()
}

func validate(key, value string) error {
	switch key {
	case repository.SettingMethod:
		if !model.ValidSendMethod(value) {
			return errors.Newf("unknown send method %q", value)
		}
	case repository.SettingResolution:
		if !model.ValidResolution(value) {
			return errors.Newf("unknown resolution %q", value)
		}
	default:
		return errors.Newf("unknown settings key %q", key)
	}
	return nil
}
