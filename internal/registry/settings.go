package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Settings is what the launcher recorded about an experiment's REST server.
// JSON names match the keys experiment tooling has always used for this data.
type Settings struct {
	Port             int            `json:"-" yaml:"-"`
	RESTServerPort   int            `json:"restServerPort" yaml:"restServerPort"`
	RESTServerPID    int            `json:"restServerPid" yaml:"restServerPid"`
	WebUIURLs        []string       `json:"webuiUrl" yaml:"webuiUrl"`
	ExperimentConfig map[string]any `json:"experimentConfig,omitempty" yaml:"experimentConfig,omitempty"`
}

// Settings returns the settings recorded for the experiment registered on port.
func (s *Store) Settings(ctx context.Context, port int) (Settings, error) {
	ctx = ensureContext(ctx)
	var (
		settings         = Settings{Port: port}
		urlsJSON, cfgRaw string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT rest_server_port, rest_server_pid, webui_urls, experiment_config
             FROM experiment_settings WHERE port = ?`, port,
		).Scan(&settings.RESTServerPort, &settings.RESTServerPID, &urlsJSON, &cfgRaw)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, fmt.Errorf("settings for port %d: %w", port, ErrNotFound)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings for port %d: %w", port, err)
	}
	if err := json.Unmarshal([]byte(urlsJSON), &settings.WebUIURLs); err != nil {
		return Settings{}, fmt.Errorf("decode webui urls for port %d: %w", port, err)
	}
	if err := json.Unmarshal([]byte(cfgRaw), &settings.ExperimentConfig); err != nil {
		return Settings{}, fmt.Errorf("decode experiment config for port %d: %w", port, err)
	}
	return settings, nil
}

// SaveSettings inserts or replaces the settings row for settings.Port.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	ctx = ensureContext(ctx)
	row, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if err := s.inTx(ctx, func(tx *sql.Tx) error {
		return saveSettingsTx(ctx, tx, row)
	}); err != nil {
		return fmt.Errorf("save settings for port %d: %w", settings.Port, err)
	}
	return nil
}

type settingsRow struct {
	port, restPort, restPID int
	urls, config            string
}

func encodeSettings(settings Settings) (settingsRow, error) {
	if settings.Port <= 0 {
		return settingsRow{}, fmt.Errorf("settings: invalid port %d", settings.Port)
	}
	urls := settings.WebUIURLs
	if urls == nil {
		urls = []string{}
	}
	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return settingsRow{}, fmt.Errorf("encode webui urls: %w", err)
	}
	cfg := settings.ExperimentConfig
	if cfg == nil {
		cfg = map[string]any{}
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return settingsRow{}, fmt.Errorf("encode experiment config: %w", err)
	}
	return settingsRow{
		port:     settings.Port,
		restPort: settings.RESTServerPort,
		restPID:  settings.RESTServerPID,
		urls:     string(urlsJSON),
		config:   string(cfgJSON),
	}, nil
}

func saveSettingsTx(ctx context.Context, tx *sql.Tx, row settingsRow) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO experiment_settings (port, rest_server_port, rest_server_pid, webui_urls, experiment_config)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(port) DO UPDATE SET
             rest_server_port = excluded.rest_server_port,
             rest_server_pid = excluded.rest_server_pid,
             webui_urls = excluded.webui_urls,
             experiment_config = excluded.experiment_config`,
		row.port, row.restPort, row.restPID, row.urls, row.config,
	)
	return err
}
