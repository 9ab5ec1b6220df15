package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
)

var _ models.Repository[*models.DownloadRecord] = (*DownloadRepository)(nil)

// DownloadRepository implements models.Repository[*models.DownloadRecord] for the outcome history.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Record stores the outcome of one run.
func (r *DownloadRepository) Record(song models.SongMetadata, outcome models.Outcome) error {
	return r.Create(models.NewDownloadRecord(song, outcome))
}

// Create inserts a new [models.DownloadRecord] with a generated ID
func (r *DownloadRepository) Create(record *models.DownloadRecord) error {
	record.SetID(shared.GenerateID())

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO downloads (id, artists, title, album, target, outcome, source_id, source_url, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID(),
		record.JoinedArtists(),
		record.Title(),
		record.Album(),
		record.Target(),
		record.Outcome().String(),
		record.SourceID(),
		record.SourceURL(),
		record.Error(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// Get retrieves a record by ID
func (r *DownloadRepository) Get(id string) (*models.DownloadRecord, error) {
	query := `
		SELECT id, artists, title, album, target, outcome, source_id, source_url, error, created_at
		FROM downloads
		WHERE id = ?
	`

	record, err := scanRecord(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return record, err
}

// Delete removes a record by ID
func (r *DownloadRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM downloads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// List retrieves the newest records first.
//
// Recognised criteria: "outcome" (string), "target" (string), "limit" (int, defaults to [DefaultListLimit]).
func (r *DownloadRepository) List(criteria map[string]any) ([]*models.DownloadRecord, error) {
	query := `
		SELECT id, artists, title, album, target, outcome, source_id, source_url, error, created_at
		FROM downloads
		WHERE 1 = 1
	`

	args := []any{}

	if outcome, ok := criteria["outcome"].(string); ok && outcome != "" {
		query += " AND outcome = ?"
		args = append(args, outcome)
	}

	if target, ok := criteria["target"].(string); ok && target != "" {
		query += " AND target = ?"
		args = append(args, target)
	}

	limit := DefaultListLimit
	if l, ok := criteria["limit"].(int); ok && l > 0 {
		limit = l
	}

	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []*models.DownloadRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a [sql.Row] or the current row of [sql.Rows] into a [models.DownloadRecord]
func scanRecord(s scanner) (*models.DownloadRecord, error) {
	var (
		id        string
		artists   string
		title     string
		album     string
		target    string
		outcome   string
		sourceID  string
		sourceURL string
		errorText string
		createdAt time.Time
	)

	err := s.Scan(&id, &artists, &title, &album, &target, &outcome, &sourceID, &sourceURL, &errorText, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}

	kind, err := models.ParseOutcomeKind(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to scan download %s: %w", id, err)
	}

	return models.RestoreDownloadRecord(id, artists, title, album, target, kind, sourceID, sourceURL, errorText, createdAt), nil
}
