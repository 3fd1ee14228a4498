package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"seo-tag-analyzer/internal/models"
)

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, url, title, description, og_tags, twitter_tags, score, recommendations, created_at`

// Insert stores rec, assigning its ID and CreatedAt.
func (s *Store) Insert(ctx context.Context, rec *models.Record) error {
	ogJSON, err := json.Marshal(nonNilMap(rec.OGTags))
	if err != nil {
		return fmt.Errorf("failed to marshal og tags: %w", err)
	}
	twJSON, err := json.Marshal(nonNilMap(rec.TwitterTags))
	if err != nil {
		return fmt.Errorf("failed to marshal twitter tags: %w", err)
	}
	recs := rec.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	id := ulid.Make().String()
	createdAt := time.Now().UTC()

	query := `INSERT INTO seo_analyses (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		id,
		rec.URL,
		rec.Title,
		rec.Description,
		string(ogJSON),
		string(twJSON),
		rec.Score,
		string(recJSON),
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return wrapQueryErr("failed to insert analysis", err)
	}

	rec.ID = id
	rec.CreatedAt = createdAt
	return nil
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM seo_analyses WHERE id = ?`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("failed to get analysis %s", id), err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*models.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + recordColumns + ` FROM seo_analyses ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to list analyses", err)
	}
	defer rows.Close()

	records := []*models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var rec models.Record
	var ogJSON, twJSON, recJSON, createdAt string

	err := row.Scan(
		&rec.ID,
		&rec.URL,
		&rec.Title,
		&rec.Description,
		&ogJSON,
		&twJSON,
		&rec.Score,
		&recJSON,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ogJSON), &rec.OGTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal og tags for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(twJSON), &rec.TwitterTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal twitter tags for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(recJSON), &rec.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations for %s: %w", rec.ID, err)
	}
	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
