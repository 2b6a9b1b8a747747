package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Experiment is one registry entry.
type Experiment struct {
	ID        string
	Port      int
	StartTime string
}

// All returns every registered experiment keyed by id.
func (s *Store) All(ctx context.Context) (map[string]Experiment, error) {
	ctx = ensureContext(ctx)
	var experiments map[string]Experiment
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, "SELECT id, port, start_time FROM experiments")
		if err != nil {
			return err
		}
		defer rows.Close()

		experiments = make(map[string]Experiment)
		for rows.Next() {
			var exp Experiment
			if err := rows.Scan(&exp.ID, &exp.Port, &exp.StartTime); err != nil {
				return err
			}
			experiments[exp.ID] = exp
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	return experiments, nil
}

// Get returns a single experiment by exact id.
func (s *Store) Get(ctx context.Context, id string) (Experiment, error) {
	ctx = ensureContext(ctx)
	var exp Experiment
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT id, port, start_time FROM experiments WHERE id = ?", id,
		).Scan(&exp.ID, &exp.Port, &exp.StartTime)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Experiment{}, fmt.Errorf("experiment %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Experiment{}, fmt.Errorf("get experiment %q: %w", id, err)
	}
	return exp, nil
}

// Add registers an experiment. Re-registering an id replaces its port and
// start time, and drops the settings recorded for the old port.
func (s *Store) Add(ctx context.Context, exp Experiment) error {
	ctx = ensureContext(ctx)
	exp, err := normalizeExperiment(exp)
	if err != nil {
		return err
	}
	if err := s.inTx(ctx, func(tx *sql.Tx) error {
		return addTx(ctx, tx, exp)
	}); err != nil {
		return fmt.Errorf("add experiment %s: %w", exp.ID, err)
	}
	return nil
}

// Register adds exp and its settings in one transaction so an experiment is
// never left registered without the settings its launcher supplied.
func (s *Store) Register(ctx context.Context, exp Experiment, settings Settings) error {
	ctx = ensureContext(ctx)
	exp, err := normalizeExperiment(exp)
	if err != nil {
		return err
	}
	settings.Port = exp.Port
	row, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := addTx(ctx, tx, exp); err != nil {
			return err
		}
		return saveSettingsTx(ctx, tx, row)
	}); err != nil {
		return fmt.Errorf("register experiment %s: %w", exp.ID, err)
	}
	return nil
}

func normalizeExperiment(exp Experiment) (Experiment, error) {
	exp.ID = strings.TrimSpace(exp.ID)
	exp.StartTime = strings.TrimSpace(exp.StartTime)
	if exp.ID == "" {
		return exp, errors.New("experiment id is required")
	}
	if exp.Port <= 0 {
		return exp, fmt.Errorf("experiment %s: invalid port %d", exp.ID, exp.Port)
	}
	return exp, nil
}

func addTx(ctx context.Context, tx *sql.Tx, exp Experiment) error {
	var oldPort int
	err := tx.QueryRowContext(ctx, "SELECT port FROM experiments WHERE id = ?", exp.ID).Scan(&oldPort)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case oldPort != exp.Port:
		if _, err := tx.ExecContext(ctx, "DELETE FROM experiment_settings WHERE port = ?", oldPort); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO experiments (id, port, start_time, registered_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET port = excluded.port, start_time = excluded.start_time`,
		exp.ID, exp.Port, exp.StartTime, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Remove deletes an experiment and the settings recorded for its port.
func (s *Store) Remove(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var port int
		err := tx.QueryRowContext(ctx, "SELECT port FROM experiments WHERE id = ?", id).Scan(&port)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM experiments WHERE id = ?", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM experiment_settings WHERE port = ?", port)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("experiment %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove experiment %q: %w", id, err)
	}
	return nil
}
