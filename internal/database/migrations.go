package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunMigrations exécute les migrations de base de données
func RunMigrations(db *DB) error {
	logrus.Info("Running rift database migrations...")

	// Migrations SQL, dans l'ordre
	migrations := []string{
		createRawEventsTable,
		createGamificationRulesTable,
		createEventLogTable,
		createIndexes,
		seedDefaultRules,
	}

	// Exécuter chaque migration
	for i, migration := range migrations {
		logrus.WithField("migration", i+1).Debug("Executing migration")

		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}

	logrus.Info("Rift database migrations completed successfully")
	return nil
}

// Migrations SQL
const createRawEventsTable = `
CREATE TABLE IF NOT EXISTS raw_events (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source VARCHAR(20) NOT NULL CHECK (source IN ('outreach', 'nooks', 'manual', 'zapier')),
    event_type VARCHAR(50) NOT NULL,
    gold_value INTEGER NOT NULL DEFAULT 0 CHECK (gold_value >= 0),
    xp_value INTEGER NOT NULL DEFAULT 0 CHECK (xp_value >= 0),
    metadata JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const createGamificationRulesTable = `
CREATE TABLE IF NOT EXISTS gamification_rules (
    event_type VARCHAR(50) PRIMARY KEY,
    gold_value INTEGER NOT NULL CHECK (gold_value >= 0),
    xp_value INTEGER NOT NULL CHECK (xp_value >= 0),
    display_name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);`

const createEventLogTable = `
CREATE TABLE IF NOT EXISTS event_log (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    event_id UUID NOT NULL REFERENCES raw_events(id) ON DELETE CASCADE,
    action VARCHAR(50) NOT NULL,
    details JSONB NOT NULL DEFAULT '{}',
    timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const createIndexes = `
-- Index pour optimiser les requêtes
CREATE INDEX IF NOT EXISTS idx_raw_events_created_at ON raw_events(created_at);
CREATE INDEX IF NOT EXISTS idx_raw_events_event_type ON raw_events(event_type);
CREATE INDEX IF NOT EXISTS idx_raw_events_dedup ON raw_events(source, event_type, created_at);
CREATE INDEX IF NOT EXISTS idx_event_log_event_id ON event_log(event_id);
`

// Valeurs par défaut des règles de gamification.
// ON CONFLICT DO NOTHING: les valeurs déjà configurées priment.
const seedDefaultRules = `
INSERT INTO gamification_rules (event_type, gold_value, xp_value, display_name, description) VALUES
    ('call_dial', 15, 5, 'Call Dialed', 'An outbound call was dialed'),
    ('call_connect', 50, 20, 'Call Connected', 'A prospect picked up the phone'),
    ('email_sent', 5, 2, 'Email Sent', 'An outbound email was sent'),
    ('meeting_booked', 1000, 500, 'Meeting Booked', 'A meeting was booked with a prospect'),
    ('meeting_attended', 2000, 1000, 'Meeting Attended', 'A booked meeting actually happened')
ON CONFLICT (event_type) DO NOTHING;
`
