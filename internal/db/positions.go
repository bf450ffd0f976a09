package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-agent/internal/types"
)

// UpsertPosition stores a position definition document, replacing any
// previous definition with the same ID.
func (db *DB) UpsertPosition(ctx context.Context, position *types.Position) error {
	if position.ID == "" {
		return fmt.Errorf("position ID cannot be empty")
	}
	jsonBytes, err := json.Marshal(position)
	if err != nil {
		return fmt.Errorf("failed to marshal position %s: %w", position.ID, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO positions (id, definition)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET definition = $2, updated_at = NOW()`,
		position.ID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", position.ID, err)
	}
	return nil
}

// GetPosition retrieves a position definition by ID. Returns ErrNotFound
// when the position does not exist.
func (db *DB) GetPosition(ctx context.Context, positionID string) (*types.Position, error) {
	var jsonBytes []byte
	err := db.pool.QueryRow(ctx,
		`SELECT definition FROM positions WHERE id = $1`,
		positionID,
	).Scan(&jsonBytes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("position %s: %w", positionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get position %s: %w", positionID, err)
	}

	var position types.Position
	if err := json.Unmarshal(jsonBytes, &position); err != nil {
		return nil, fmt.Errorf("failed to unmarshal position %s: %w", positionID, err)
	}
	if position.ID == "" {
		position.ID = positionID
	}
	return &position, nil
}

// ListPositionIDs retrieves the IDs of all stored positions.
func (db *DB) ListPositionIDs(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT id FROM positions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan position id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
