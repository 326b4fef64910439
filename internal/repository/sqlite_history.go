package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/history"
)

const historyRowID = "board"

// SQLiteHistoryRepo persists the undo/redo stacks so they survive restarts
// of the command line tool.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

func (r *SQLiteHistoryRepo) Load(ctx context.Context) (history.Stacks, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM history_stacks WHERE id = ?`, historyRowID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return history.Stacks{}, false, nil
		}
		return history.Stacks{}, false, fmt.Errorf("loading history stacks: %w", err)
	}
	var stacks history.Stacks
	if err := json.Unmarshal([]byte(payload), &stacks); err != nil {
		return history.Stacks{}, false, fmt.Errorf("decoding history stacks: %w", err)
	}
	return stacks, true, nil
}

func (r *SQLiteHistoryRepo) Save(ctx context.Context, stacks history.Stacks) error {
	payload, err := json.Marshal(stacks)
	if err != nil {
		return fmt.Errorf("encoding history stacks: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO history_stacks (id, payload, updated_at) VALUES (?, ?, ?)`,
		historyRowID, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving history stacks: %w", err)
	}
	return nil
}
