package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound reports a lookup for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one completed run.
type Run struct {
	ID           string
	InputPath    string
	OutputPath   string
	Strategy     string
	PoolSize     int
	MaxInFlight  int
	Factor       int
	Width        int
	Height       int
	PeakInFlight int
	Elapsed      time.Duration
	CreatedAt    time.Time
}

// timeLayout has fixed-width fractions so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, input_path, output_path, strategy, pool_size, max_in_flight,
	factor, width, height, peak_in_flight, elapsed_us, created_at`

// Record inserts a completed run. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("record run: empty id")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.InputPath, run.OutputPath, run.Strategy,
			run.PoolSize, run.MaxInFlight, run.Factor,
			run.Width, run.Height, run.PeakInFlight,
			run.Elapsed.Microseconds(),
			run.CreatedAt.UTC().Format(timeLayout),
		)
		return err
	})
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id, accepting any unique prefix.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		id, escapeLike(id)+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if run.ID == id {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// Clear deletes every recorded run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		elapsedUS int64
		created   string
	)
	if err := sc.Scan(
		&run.ID, &run.InputPath, &run.OutputPath, &run.Strategy,
		&run.PoolSize, &run.MaxInFlight, &run.Factor,
		&run.Width, &run.Height, &run.PeakInFlight,
		&elapsedUS, &created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Elapsed = time.Duration(elapsedUS) * time.Microsecond
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	run.CreatedAt = ts
	return run, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
