package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrsaas/transferd/internal/model"
)

// GetSummary recomputes the transfer dashboard counts from stored rows.
func GetSummary(ctx context.Context, db *sql.DB) (*model.TransferSummary, error) {
	s := &model.TransferSummary{}
	err := db.QueryRowContext(ctx,
		`SELECT
		     COUNT(CASE WHEN status = 'PENDING_SOURCE' THEN 1 END),
		     COUNT(CASE WHEN status = 'PENDING_TARGET' THEN 1 END),
		     COUNT(CASE WHEN status = 'APPROVED' THEN 1 END),
		     COUNT(CASE WHEN status = 'COMPLETED'
		                AND strftime('%Y-%m', completed_at) = strftime('%Y-%m', 'now') THEN 1 END)
		 FROM transfer_requests`,
	).Scan(&s.PendingSourceCount, &s.PendingTargetCount, &s.ApprovedCount, &s.CompletedThisMonth)
	if err != nil {
		return nil, fmt.Errorf("computing transfer summary: %w", err)
	}
	return s, nil
}
