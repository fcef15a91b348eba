package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// ErrSheetNotFound is returned when a sheet lookup yields no results.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetRecord is a stored sheet.
type SheetRecord struct {
	CharacterID string
	Name        string
	Passes      int
	Sheet       json.RawMessage
	UpdatedAt   time.Time
}

// Decode unmarshals the stored sheet.
func (r *SheetRecord) Decode() (character.Sheet, error) {
	var s character.Sheet
	if err := json.Unmarshal(r.Sheet, &s); err != nil {
		return character.Sheet{}, fmt.Errorf("decoding sheet %q: %w", r.CharacterID, err)
	}
	return s, nil
}

// SheetRepository stores the latest computed sheet of each character.
type SheetRepository struct {
	db *pgxpool.Pool
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSheetRepository(db *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{db: db}
}

// Save inserts or replaces the sheet for sheet.ID and returns the stored
// update time.
//
// Precondition: sheet.ID must be non-empty.
// Postcondition: Get(sheet.ID) returns the saved sheet, or a non-nil error is returned.
func (r *SheetRepository) Save(ctx context.Context, sheet character.Sheet) (time.Time, error) {
	if sheet.ID == "" {
		return time.Time{}, errors.New("saving sheet: character id must not be empty")
	}
	data, err := json.Marshal(sheet)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding sheet %q: %w", sheet.ID, err)
	}
	var updated time.Time
	err = r.db.QueryRow(ctx, `
		INSERT INTO sheets (character_id, name, passes, sheet)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (character_id) DO UPDATE
		SET name = EXCLUDED.name, passes = EXCLUDED.passes, sheet = EXCLUDED.sheet, updated_at = NOW()
		RETURNING updated_at`,
		sheet.ID, sheet.Name, sheet.Passes, string(data),
	).Scan(&updated)
	if err != nil {
		return time.Time{}, fmt.Errorf("saving sheet %q: %w", sheet.ID, err)
	}
	return updated, nil
}

// SaveAsync saves sheet in the background and logs failures. The returned
// channel is closed once the write has finished.
//
// Postcondition: A nil logger is replaced by a no-op logger.
func (r *SheetRepository) SaveAsync(ctx context.Context, sheet character.Sheet, logger *zap.Logger) <-chan struct{} {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := r.Save(ctx, sheet); err != nil {
			logger.Error("saving sheet", zap.String("character_id", sheet.ID), zap.Error(err))
			return
		}
		logger.Debug("sheet saved", zap.String("character_id", sheet.ID))
	}()
	return done
}

// Get returns the stored sheet for characterID.
//
// Postcondition: Returns the record, ErrSheetNotFound, or another non-nil error.
func (r *SheetRepository) Get(ctx context.Context, characterID string) (*SheetRecord, error) {
	var rec SheetRecord
	err := r.db.QueryRow(ctx, `
		SELECT character_id, name, passes, sheet, updated_at
		FROM sheets WHERE character_id = $1`,
		characterID,
	).Scan(&rec.CharacterID, &rec.Name, &rec.Passes, &rec.Sheet, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("getting sheet %q: %w", characterID, err)
	}
	return &rec, nil
}

// List returns every stored sheet ordered by name, without sheet bodies.
func (r *SheetRepository) List(ctx context.Context) ([]*SheetRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT character_id, name, passes, updated_at
		FROM sheets ORDER BY name ASC, character_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	var out []*SheetRecord
	for rows.Next() {
		var rec SheetRecord
		if err := rows.Scan(&rec.CharacterID, &rec.Name, &rec.Passes, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning sheet: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	return out, nil
}

// Delete removes the sheet for characterID.
//
// Postcondition: Returns nil, ErrSheetNotFound, or another non-nil error.
func (r *SheetRepository) Delete(ctx context.Context, characterID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sheets WHERE character_id = $1`, characterID)
	if err != nil {
		return fmt.Errorf("deleting sheet %q: %w", characterID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}
