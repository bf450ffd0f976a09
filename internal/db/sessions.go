package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-agent/internal/types"
)

// CreateSession creates a session bound to a position and stores the
// uploaded CV text as its first stage. It returns the new session ID.
func (db *DB) CreateSession(ctx context.Context, positionID, cvText string) (string, error) {
	id := uuid.New().String()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sessions (id, position_id) VALUES ($1, $2)`,
		id, positionID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if cvText != "" {
		if err := db.SaveStageOutput(ctx, id, types.StageUploadedCV, cvText); err != nil {
			return "", err
		}
	}
	return id, nil
}

// GetSession retrieves a session together with all its stage outputs.
// Returns ErrNotFound when the session does not exist.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*types.SessionRecord, error) {
	record := &types.SessionRecord{
		ID:     sessionID,
		Stages: make(map[string]json.RawMessage),
	}
	err := db.pool.QueryRow(ctx,
		`SELECT position_id FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&record.PositionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT stage, content FROM session_stages WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stages for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stage string
		var content []byte
		if err := rows.Scan(&stage, &content); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		record.Stages[stage] = json.RawMessage(content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stages for session %s: %w", sessionID, err)
	}
	return record, nil
}

// SaveStageOutput stores a JSON stage output for a session, overwriting any
// previous value for the same stage.
func (db *DB) SaveStageOutput(ctx context.Context, sessionID, stage string, value any) error {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal stage %s: %w", stage, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO session_stages (session_id, stage, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, stage) DO UPDATE SET content = $3, updated_at = NOW()`,
		sessionID, stage, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save stage %s for session %s: %w", stage, sessionID, err)
	}
	return nil
}

// GetStageOutput retrieves one stage's raw JSON content. Returns nil when
// the stage has not been written.
func (db *DB) GetStageOutput(ctx context.Context, sessionID, stage string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM session_stages WHERE session_id = $1 AND stage = $2`,
		sessionID, stage,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stage %s for session %s: %w", stage, sessionID, err)
	}
	return content, nil
}

// DeleteSession removes a session and its stages (via cascade).
func (db *DB) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}
