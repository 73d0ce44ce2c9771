package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('pending', 'approved', 'rejected');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN
			CREATE TYPE payment_status AS ENUM ('unpaid', 'paid');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'id_proof_type') THEN
			CREATE TYPE id_proof_type AS ENUM ('aadhaar', 'driving-license');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'hazard_status') THEN
			CREATE TYPE hazard_status AS ENUM ('reported', 'verified', 'resolved');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'hazard_severity') THEN
			CREATE TYPE hazard_severity AS ENUM ('low', 'medium', 'high', 'critical');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS violation_reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(32) NOT NULL UNIQUE,
		category VARCHAR(32) NOT NULL,
		vehicle_number VARCHAR(16) NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		location_address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		details VARCHAR(500),
		reporter_name VARCHAR(100) NOT NULL,
		reporter_phone VARCHAR(10) NOT NULL,
		reporter_email VARCHAR(255),
		reporter_id_proof_type id_proof_type NOT NULL,
		reporter_id_proof_number VARCHAR(64) NOT NULL,
		reporter_id_proof_file_url TEXT,
		reporter_id_proof_file_original_name TEXT,
		reporter_id_proof_file_size BIGINT,
		reporter_id_proof_file_mime_type VARCHAR(128),
		reporter_upi_id VARCHAR(128),
		status report_status NOT NULL DEFAULT 'pending',
		fine_amount BIGINT,
		challan_code VARCHAR(32),
		reviewed_by UUID,
		reviewed_at TIMESTAMPTZ,
		rejection_reason TEXT,
		payment_status payment_status NOT NULL DEFAULT 'unpaid',
		paid_at TIMESTAMPTZ,
		commission_paid BOOLEAN NOT NULL DEFAULT FALSE,
		commission_paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_reports_status ON violation_reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_reports_category ON violation_reports (category);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_reports_vehicle_number ON violation_reports (vehicle_number);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_reports_created_at ON violation_reports (created_at);`,
	`CREATE TABLE IF NOT EXISTS violation_evidence_files (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id UUID NOT NULL REFERENCES violation_reports(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		original_name TEXT,
		size BIGINT,
		mime_type VARCHAR(128),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_evidence_files_violation_id ON violation_evidence_files (violation_id);`,
	`CREATE TABLE IF NOT EXISTS challans (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(32) NOT NULL UNIQUE,
		violation_id UUID NOT NULL REFERENCES violation_reports(id) ON DELETE CASCADE,
		vehicle_number VARCHAR(16) NOT NULL,
		category VARCHAR(32) NOT NULL,
		location_address TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		fine_amount BIGINT NOT NULL,
		issued_by UUID NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL,
		payment_status payment_status NOT NULL DEFAULT 'unpaid',
		paid_at TIMESTAMPTZ,
		payment_method VARCHAR(32),
		payment_id VARCHAR(128)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_challans_violation_id ON challans (violation_id);`,
	`CREATE INDEX IF NOT EXISTS idx_challans_issued_at ON challans (issued_at);`,
	`CREATE TABLE IF NOT EXISTS hazard_reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(32) NOT NULL UNIQUE,
		type VARCHAR(32) NOT NULL,
		severity hazard_severity NOT NULL,
		location_address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		description TEXT NOT NULL,
		photo_url TEXT,
		photo_original_name TEXT,
		photo_size BIGINT,
		photo_mime_type VARCHAR(128),
		reporter_name VARCHAR(100),
		reporter_phone VARCHAR(10),
		reporter_email VARCHAR(255),
		status hazard_status NOT NULL DEFAULT 'reported',
		verified_count INTEGER NOT NULL DEFAULT 0,
		verified_by UUID,
		verified_at TIMESTAMPTZ,
		resolved_by UUID,
		resolved_at TIMESTAMPTZ,
		resolution_details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_hazard_reports_status ON hazard_reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_hazard_reports_type ON hazard_reports (type);`,
	`CREATE INDEX IF NOT EXISTS idx_hazard_reports_severity ON hazard_reports (severity);`,
	`CREATE INDEX IF NOT EXISTS idx_hazard_reports_created_at ON hazard_reports (created_at);`,
	`CREATE TABLE IF NOT EXISTS violation_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id UUID NOT NULL REFERENCES violation_reports(id) ON DELETE CASCADE,
		old_status report_status,
		new_status report_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_status_log_violation_id ON violation_status_log (violation_id);`,
	`CREATE TABLE IF NOT EXISTS hazard_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		hazard_id UUID NOT NULL REFERENCES hazard_reports(id) ON DELETE CASCADE,
		old_status hazard_status,
		new_status hazard_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_hazard_status_log_hazard_id ON hazard_status_log (hazard_id);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_violation_reports_updated_at') THEN
			CREATE TRIGGER trg_violation_reports_updated_at
				BEFORE UPDATE ON violation_reports
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_hazard_reports_updated_at') THEN
			CREATE TRIGGER trg_hazard_reports_updated_at
				BEFORE UPDATE ON hazard_reports
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
