package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Stats represents the admin dashboard overview
type Stats struct {
	TotalOfficers     int `json:"total_officers"`
	ActiveOfficers    int `json:"active_officers"`
	SuspendedOfficers int `json:"suspended_officers"`

	CreditsIssued   int `json:"credits_issued"`
	CreditsConsumed int `json:"credits_consumed"`
	CreditsInWallet int `json:"credits_in_wallet"`

	TotalQueries      int `json:"total_queries"`
	QueriesProcessing int `json:"queries_processing"`
	QueriesSuccess    int `json:"queries_success"`
	QueriesFailed     int `json:"queries_failed"`
	QueriesToday      int `json:"queries_today"`
}

// ActivityItem is one row in the merged recent-activity feed.
type ActivityItem struct {
	Kind      string    `db:"kind" json:"kind"` // transaction | query
	ID        uuid.UUID `db:"id" json:"id"`
	OfficerID uuid.UUID `db:"officer_id" json:"officer_id"`
	Label     string    `db:"label" json:"label"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Service provides dashboard statistics
type Service struct {
	db *sqlx.DB
}

// NewService creates dashboard service
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// GetStats returns the dashboard overview counters.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	todayStart := time.Now().UTC().Truncate(24 * time.Hour)

	_ = s.db.GetContext(ctx, &stats.TotalOfficers,
		`SELECT COUNT(*) FROM officers`)
	_ = s.db.GetContext(ctx, &stats.ActiveOfficers,
		`SELECT COUNT(*) FROM officers WHERE status = 'Active'`)
	_ = s.db.GetContext(ctx, &stats.SuspendedOfficers,
		`SELECT COUNT(*) FROM officers WHERE status = 'Suspended'`)

	_ = s.db.GetContext(ctx, &stats.CreditsIssued,
		`SELECT COALESCE(SUM(credits), 0) FROM credit_transactions
		 WHERE action IN ('Renewal', 'Top-up')`)
	_ = s.db.GetContext(ctx, &stats.CreditsConsumed,
		`SELECT COALESCE(SUM(credits), 0) FROM credit_transactions
		 WHERE action = 'Deduction'`)
	_ = s.db.GetContext(ctx, &stats.CreditsInWallet,
		`SELECT COALESCE(SUM(credits_remaining), 0) FROM officers`)

	_ = s.db.GetContext(ctx, &stats.TotalQueries,
		`SELECT COUNT(*) FROM requests`)
	_ = s.db.GetContext(ctx, &stats.QueriesProcessing,
		`SELECT COUNT(*) FROM requests WHERE status = 'Processing'`)
	_ = s.db.GetContext(ctx, &stats.QueriesSuccess,
		`SELECT COUNT(*) FROM requests WHERE status = 'Success'`)
	_ = s.db.GetContext(ctx, &stats.QueriesFailed,
		`SELECT COUNT(*) FROM requests WHERE status = 'Failed'`)
	_ = s.db.GetContext(ctx, &stats.QueriesToday,
		`SELECT COUNT(*) FROM requests WHERE created_at >= $1`, todayStart)

	return stats, nil
}

// GetActivity returns recent transactions and queries merged newest first.
func (s *Service) GetActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	items := make([]ActivityItem, 0, limit)
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM (
			SELECT 'transaction' AS kind, id, officer_id,
			       action AS label,
			       credits::text AS detail,
			       created_at
			FROM credit_transactions
			UNION ALL
			SELECT 'query' AS kind, id, officer_id,
			       type::text AS label,
			       status::text AS detail,
			       created_at
			FROM requests
		) activity
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	return items, nil
}
