// Command seed bootstraps the schema and loads the demo fixtures. It is
// idempotent: admins upsert on email, officers on mobile, and the sample
// ledger and query rows are only written when the officer has no history.
package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pickme/intel-api/internal/config"
	"github.com/pickme/intel-api/internal/domain/credit"
	"github.com/pickme/intel-api/internal/domain/officer"
	"github.com/pickme/intel-api/internal/pkg/database"
	"github.com/pickme/intel-api/internal/pkg/password"
)

const schema = `
CREATE TABLE IF NOT EXISTS officers (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	mobile TEXT NOT NULL UNIQUE,
	telegram_id TEXT,
	department TEXT,
	rank TEXT,
	badge_number TEXT,
	station TEXT,
	password_hash TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Active',
	credits_remaining INT NOT NULL DEFAULT 0,
	total_credits INT NOT NULL DEFAULT 0,
	total_queries INT NOT NULL DEFAULT 0,
	rate_limit_per_hour INT NOT NULL DEFAULT 100,
	pro_access_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	last_active TIMESTAMPTZ,
	registered_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT officers_balance_non_negative CHECK (credits_remaining >= 0)
);

CREATE TABLE IF NOT EXISTS credit_transactions (
	id UUID PRIMARY KEY,
	officer_id UUID NOT NULL REFERENCES officers(id),
	action TEXT NOT NULL,
	credits INT NOT NULL,
	previous_balance INT NOT NULL,
	new_balance INT NOT NULL,
	payment_mode TEXT,
	payment_reference TEXT,
	remarks TEXT,
	processed_by UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_credit_transactions_officer
	ON credit_transactions (officer_id, created_at DESC);

CREATE TABLE IF NOT EXISTS requests (
	id UUID PRIMARY KEY,
	officer_id UUID NOT NULL REFERENCES officers(id),
	type TEXT NOT NULL,
	category TEXT,
	input_data TEXT NOT NULL,
	source TEXT,
	result_summary TEXT,
	credits_used INT NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'Processing',
	response_time_ms INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_requests_officer
	ON requests (officer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_requests_status
	ON requests (status);

CREATE TABLE IF NOT EXISTS admin_users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT,
	role TEXT NOT NULL DEFAULT 'admin',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	last_login_at TIMESTAMPTZ,
	last_login_ip TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})

	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if _, err := db.Exec(schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}
	log.Info().Msg("Schema ready")

	adminID := seedAdmin(db, "ashakarthikeyan24@gmail.com", "12345Asha@!", "Asha", "admin")
	seedAdmin(db, "admin@pickme.intel", "admin123", "Admin", "admin")
	seedAdmin(db, "moderator@pickme.intel", "mod123", "Moderator", "moderator")

	officerID := seedOfficer(db)
	seedOpeningTransaction(db, officerID, adminID)
	seedSampleQueries(db, officerID)

	log.Info().Msg("Seed complete")
}

func seedAdmin(db *sqlx.DB, email, plaintext, name, role string) uuid.UUID {
	hash, err := password.Hash(plaintext)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}

	_, err = db.Exec(`
		INSERT INTO admin_users (id, email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO NOTHING
	`, uuid.New(), email, hash, name, role)
	if err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("Failed to seed admin")
	}

	var id uuid.UUID
	if err := db.Get(&id, `SELECT id FROM admin_users WHERE email = $1`, email); err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("Failed to read admin back")
	}

	log.Info().Str("email", email).Str("role", role).Msg("Admin ready")
	return id
}

func seedOfficer(db *sqlx.DB) uuid.UUID {
	hash, err := password.Hash("officer123")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash officer password")
	}

	mobile := officer.NormalizeMobile("+91 97911 03607")
	_, err = db.Exec(`
		INSERT INTO officers (
			id, name, email, mobile, telegram_id, department, rank, badge_number, station,
			password_hash, status, credits_remaining, total_credits, total_queries,
			rate_limit_per_hour, pro_access_enabled
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'Active', 45, 50, 23, 100, TRUE)
		ON CONFLICT (mobile) DO NOTHING
	`, uuid.New(), "Inspector Ramesh Kumar", "ramesh.kumar@police.gov.in", mobile,
		"@rameshcop", "Cyber Crime", "Inspector", "CC001", "T. Nagar Police Station", hash)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed officer")
	}

	var id uuid.UUID
	if err := db.Get(&id, `SELECT id FROM officers WHERE mobile = $1`, mobile); err != nil {
		log.Fatal().Err(err).Msg("Failed to read officer back")
	}

	log.Info().Str("mobile", mobile).Msg("Officer ready")
	return id
}

func seedOpeningTransaction(db *sqlx.DB, officerID, adminID uuid.UUID) {
	var exists bool
	if err := db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM credit_transactions WHERE officer_id = $1)`, officerID); err != nil {
		log.Fatal().Err(err).Msg("Failed to check ledger")
	}
	if exists {
		return
	}

	_, err := db.Exec(`
		INSERT INTO credit_transactions (
			id, officer_id, action, credits, previous_balance, new_balance,
			payment_mode, remarks, processed_by
		)
		VALUES ($1, $2, $3, 50, 0, 50, 'Department Budget', 'Initial credit allocation', $4)
	`, uuid.New(), officerID, credit.ActionRenewal, adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed opening transaction")
	}

	log.Info().Msg("Opening transaction written")
}

func seedSampleQueries(db *sqlx.DB, officerID uuid.UUID) {
	var exists bool
	if err := db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE officer_id = $1)`, officerID); err != nil {
		log.Fatal().Err(err).Msg("Failed to check requests")
	}
	if exists {
		return
	}

	samples := []struct {
		qtype          string
		category       string
		input          string
		creditsUsed    int
		responseTimeMs int
		summary        string
	}{
		{"PRO", "Phone", "+919876543210", 2, 1800, "Subscriber identified, 2 linked accounts"},
		{"OSINT", "Email", "suspect@example.com", 0, 2400, "3 public profiles found"},
	}

	for _, s := range samples {
		_, err := db.Exec(`
			INSERT INTO requests (
				id, officer_id, type, category, input_data, credits_used,
				status, result_summary, response_time_ms, completed_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, 'Success', $7, $8, NOW())
		`, uuid.New(), officerID, s.qtype, s.category, s.input, s.creditsUsed, s.summary, s.responseTimeMs)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed sample query")
		}
	}

	log.Info().Int("count", len(samples)).Msg("Sample queries written")
}
