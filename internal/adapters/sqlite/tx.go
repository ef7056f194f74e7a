package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"studybuddy/internal/domain"
)

const dateLayout = "2006-01-02"

// storeTx groups the writes of one repository call
type storeTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// withTx runs fn in a transaction, rolling back when it fails
func (s *Store) withTx(ctx context.Context, fn func(*storeTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&storeTx{ctx: ctx, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// upsertRecord inserts or updates a record and reports whether it was new.
// Updates keep the record's original position.
func (t *storeTx) upsertRecord(r domain.Record) (bool, error) {
	authors, err := json.Marshal(r.Authors)
	if err != nil {
		return false, err
	}
	citedBy, err := json.Marshal(r.CitedBy)
	if err != nil {
		return false, err
	}
	date := ""
	if !r.Publication.Date.IsZero() {
		date = r.Publication.Date.Format(dateLayout)
	}

	var existed bool
	if err := t.tx.QueryRowContext(t.ctx,
		`SELECT EXISTS(SELECT 1 FROM records WHERE id = ?)`, r.ID).Scan(&existed); err != nil {
		return false, err
	}

	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO records (id, title, abstract, authors, journal, volume, issue, pub_date, cited_by, impact_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			abstract = excluded.abstract,
			authors = excluded.authors,
			journal = excluded.journal,
			volume = excluded.volume,
			issue = excluded.issue,
			pub_date = excluded.pub_date,
			cited_by = excluded.cited_by,
			impact_score = excluded.impact_score
	`, r.ID, r.Title, r.Abstract, string(authors), r.Publication.Journal, r.Publication.Volume,
		r.Publication.Issue, date, string(citedBy), r.ImpactScore)
	if err != nil {
		return false, err
	}

	return !existed, t.replaceRecordSubjects(r.ID, r.MajorSubjects)
}

// replaceRecordSubjects rewrites a record's major subjects in order
func (t *storeTx) replaceRecordSubjects(recordID string, subjectIDs []string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM record_subjects WHERE record_id = ?`, recordID); err != nil {
		return err
	}
	for i, id := range subjectIDs {
		if _, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO record_subjects (record_id, position, subject_id) VALUES (?, ?, ?)
		`, recordID, i, id); err != nil {
			return err
		}
	}
	return nil
}

// insertSubject adds a subject at the given load position
func (t *storeTx) insertSubject(seq int, s domain.Subject) error {
	if _, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO subjects (seq, id, name) VALUES (?, ?, ?)
	`, seq, s.ID, s.Name); err != nil {
		return err
	}
	for i, tn := range s.TreeNumbers {
		if _, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO subject_tree_numbers (subject_seq, position, tree_number) VALUES (?, ?, ?)
		`, seq, i, tn); err != nil {
			return err
		}
	}
	return nil
}

// insertRun stores a run header and its clusters
func (t *storeTx) insertRun(run *domain.Run) error {
	excluded, err := json.Marshal(run.ExcludedBranches)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return err
	}

	if _, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO runs (id, created_at, min_cluster_size, min_lineage_depth, excluded_branches, stats)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UnixNano(), run.MinClusterSize, run.MinLineageDepth, string(excluded), string(stats)); err != nil {
		return err
	}

	for pos, c := range run.Clusters {
		if _, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO run_clusters (run_id, position, subject_id, name) VALUES (?, ?, ?, ?)
		`, run.ID, pos, c.SubjectID, c.Name); err != nil {
			return err
		}
		for i, r := range c.Records {
			if _, err := t.tx.ExecContext(t.ctx, `
				INSERT INTO run_cluster_records (run_id, cluster_position, position, record_id) VALUES (?, ?, ?, ?)
			`, run.ID, pos, i, r.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// insertCard stores a card, ignoring one already saved under the same ID
func (t *storeTx) insertCard(c domain.Card) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT OR IGNORE INTO cards (id, record_id, question, answer) VALUES (?, ?, ?, ?)
	`, c.ID, c.RecordID, c.Question, c.Answer)
	return err
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return d
}
