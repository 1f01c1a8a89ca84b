package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hrsaas/transferd/internal/model"
)

const handoverColumns = `id, transfer_id, title, description, is_completed, completed_at, created_at`

func scanHandoverItem(row rowScanner) (*model.HandoverItem, error) {
	item := &model.HandoverItem{}
	var description sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&item.ID, &item.TransferID, &item.Title, &description,
		&item.IsCompleted, &completedAt, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning handover item: %w", err)
	}
	item.Description = description.String
	if completedAt.Valid {
		at := completedAt.Time
		item.CompletedAt = &at
	}
	return item, nil
}

// CreateHandoverItem adds a checklist entry to a transfer request.
func CreateHandoverItem(ctx context.Context, db *sql.DB, transferID, title, description string) (*model.HandoverItem, error) {
	if _, err := GetTransfer(ctx, db, transferID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO handover_items (id, transfer_id, title, description) VALUES (?, ?, ?, ?)`,
		id, transferID, title, nullString(description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handover item: %w", err)
	}
	return GetHandoverItem(ctx, db, transferID, id)
}

// GetHandoverItem returns one checklist entry.
func GetHandoverItem(ctx context.Context, db *sql.DB, transferID, itemID string) (*model.HandoverItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+handoverColumns+` FROM handover_items WHERE id = ? AND transfer_id = ?`,
		itemID, transferID)
	return scanHandoverItem(row)
}

// ListHandoverItems returns a transfer's checklist in creation order.
func ListHandoverItems(ctx context.Context, db *sql.DB, transferID string) ([]model.HandoverItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+handoverColumns+` FROM handover_items WHERE transfer_id = ? ORDER BY created_at, id`,
		transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing handover items: %w", err)
	}
	defer rows.Close()

	var items []model.HandoverItem
	for rows.Next() {
		item, err := scanHandoverItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CompleteHandoverItem marks an item done. Completion is terminal and
// idempotent: a second call returns the already-completed item with its
// original completion timestamp and no error.
func CompleteHandoverItem(ctx context.Context, db *sql.DB, transferID, itemID string) (*model.HandoverItem, error) {
	_, err := db.ExecContext(ctx,
		`UPDATE handover_items
		 SET is_completed = 1, completed_at = COALESCE(completed_at, CURRENT_TIMESTAMP)
		 WHERE id = ? AND transfer_id = ?`,
		itemID, transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("completing handover item: %w", err)
	}
	return GetHandoverItem(ctx, db, transferID, itemID)
}
