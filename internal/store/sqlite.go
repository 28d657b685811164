package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/karo-care/directory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	record_count INTEGER NOT NULL DEFAULT 0,
	report       TEXT,
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS classifications (
	record_id  TEXT PRIMARY KEY,
	category   TEXT NOT NULL,
	confidence TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id          TEXT NOT NULL REFERENCES runs(id),
	record_id       TEXT NOT NULL,
	category        TEXT NOT NULL,
	disposition     TEXT NOT NULL,
	confidence      TEXT NOT NULL DEFAULT '',
	stage1_rule     TEXT NOT NULL DEFAULT '',
	classify_reason TEXT NOT NULL DEFAULT '',
	correction_rule TEXT NOT NULL DEFAULT '',
	dedup_pass      TEXT NOT NULL DEFAULT '',
	merged_into     TEXT NOT NULL DEFAULT '',
	tags            TEXT NOT NULL DEFAULT '',
	slug            TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, record_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_outcomes_disposition ON outcomes(run_id, disposition);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, recordCount int) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, record_count, started_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), recordCount, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:          id,
		Status:      model.RunStatusRunning,
		RecordCount: recordCount,
		StartedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, report json.RawMessage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, report = ?, updated_at = ? WHERE id = ?`,
		string(status), nullableString(report), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, record_count, report, started_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) GetLatestRun(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, record_count, report, started_at, updated_at FROM runs
		 ORDER BY started_at DESC LIMIT 1`,
	)
	return scanRun(row)
}

func (s *SQLiteStore) GetClassification(ctx context.Context, recordID string) (*model.ClassificationResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT category, confidence, reason FROM classifications WHERE record_id = ?`,
		recordID,
	)

	var res model.ClassificationResult
	var category, confidence string
	err := row.Scan(&category, &confidence, &res.Reason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get classification")
	}
	res.RecordID = recordID
	res.Category = model.Category(category)
	res.Confidence = model.Confidence(confidence)
	return &res, nil
}

func (s *SQLiteStore) PutClassification(ctx context.Context, res model.ClassificationResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classifications (record_id, category, confidence, reason)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(record_id) DO UPDATE SET
		   category = excluded.category,
		   confidence = excluded.confidence,
		   reason = excluded.reason`,
		res.RecordID, string(res.Category), string(res.Confidence), res.Reason,
	)
	return eris.Wrapf(err, "sqlite: put classification %s", res.RecordID)
}

func (s *SQLiteStore) PutOutcomes(ctx context.Context, runID string, outcomes []model.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin outcomes tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO outcomes
		 (run_id, record_id, category, disposition, confidence, stage1_rule,
		  classify_reason, correction_rule, dedup_pass, merged_into, tags, slug, city)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare outcomes insert")
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			runID, o.RecordID, string(o.Category), string(o.Disposition),
			string(o.Confidence), o.Stage1Rule, o.ClassifyReason,
			o.CorrectionRule, o.DedupPass, o.MergedInto,
			strings.Join(o.Tags, ","), o.Slug, o.City,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert outcome %s", o.RecordID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit outcomes")
}

func (s *SQLiteStore) GetOutcome(ctx context.Context, runID, recordID string) (*model.Outcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record_id, category, disposition, confidence, stage1_rule,
		        classify_reason, correction_rule, dedup_pass, merged_into, tags, slug, city
		 FROM outcomes WHERE run_id = ? AND record_id = ?`,
		runID, recordID,
	)
	o, err := scanOutcome(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get outcome")
	}
	return o, nil
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, runID string) ([]model.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, category, disposition, confidence, stage1_rule,
		        classify_reason, correction_rule, dedup_pass, merged_into, tags, slug, city
		 FROM outcomes WHERE run_id = ? ORDER BY record_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		outcomes = append(outcomes, *o)
	}
	return outcomes, eris.Wrap(rows.Err(), "sqlite: list outcomes iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var status string
	var report sql.NullString

	err := row.Scan(&r.ID, &status, &r.RecordCount, &report, &r.StartedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	r.Status = model.RunStatus(status)
	if report.Valid {
		r.Report = json.RawMessage(report.String)
	}
	return &r, nil
}

func scanOutcome(row scannable) (*model.Outcome, error) {
	var o model.Outcome
	var category, disposition, confidence, tags string
	err := row.Scan(&o.RecordID, &category, &disposition, &confidence,
		&o.Stage1Rule, &o.ClassifyReason, &o.CorrectionRule,
		&o.DedupPass, &o.MergedInto, &tags, &o.Slug, &o.City)
	if err != nil {
		return nil, err
	}
	o.Category = model.Category(category)
	o.Disposition = model.Disposition(disposition)
	o.Confidence = model.Confidence(confidence)
	if tags != "" {
		o.Tags = strings.Split(tags, ",")
	}
	return &o, nil
}
