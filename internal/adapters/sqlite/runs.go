package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// SaveRun stores a run with its clusters
func (s *Store) SaveRun(ctx context.Context, run *domain.Run) error {
	return s.withTx(ctx, func(tx *storeTx) error {
		if err := tx.insertRun(run); err != nil {
			return fmt.Errorf("run %s: %w", run.ID, err)
		}
		return nil
	})
}

// GetRun returns a run with its clusters and records
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, created_at, min_cluster_size, min_lineage_depth, excluded_branches, stats
		FROM runs WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadClusters(ctx, run, true); err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun returns the newest run
func (s *Store) LatestRun(ctx context.Context) (*domain.Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("latest run: %w", ports.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.GetRun(ctx, id)
}

// ListRuns returns every run, newest first, with clusters but not their records
func (s *Store) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, min_cluster_size, min_lineage_depth, excluded_branches, stats
		FROM runs ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, *run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if err := s.loadClusters(ctx, &runs[i], false); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var (
		run             domain.Run
		created         int64
		excluded, stats string
	)
	if err := row.Scan(&run.ID, &created, &run.MinClusterSize, &run.MinLineageDepth, &excluded, &stats); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(excluded), &run.ExcludedBranches); err != nil {
		return nil, fmt.Errorf("run %s excluded branches: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
		return nil, fmt.Errorf("run %s stats: %w", run.ID, err)
	}
	return &run, nil
}

// loadClusters fills run.Clusters in stored order. With withRecords the
// cluster records are loaded too.
func (s *Store) loadClusters(ctx context.Context, run *domain.Run, withRecords bool) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_id, name FROM run_clusters WHERE run_id = ? ORDER BY position
	`, run.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c domain.Cluster
		if err := rows.Scan(&c.SubjectID, &c.Name); err != nil {
			rows.Close()
			return err
		}
		run.Clusters = append(run.Clusters, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if !withRecords {
		return nil
	}

	byID, err := s.recordsByID(ctx, run.ID)
	if err != nil {
		return err
	}

	members, err := s.db.QueryContext(ctx, `
		SELECT cluster_position, record_id FROM run_cluster_records
		WHERE run_id = ? ORDER BY cluster_position, position
	`, run.ID)
	if err != nil {
		return err
	}
	defer members.Close()

	for members.Next() {
		var (
			pos      int
			recordID string
		)
		if err := members.Scan(&pos, &recordID); err != nil {
			return err
		}
		if pos < 0 || pos >= len(run.Clusters) {
			continue
		}
		r, ok := byID[recordID]
		if !ok {
			r = domain.Record{ID: recordID}
		}
		run.Clusters[pos].Records = append(run.Clusters[pos].Records, r)
	}
	return members.Err()
}
