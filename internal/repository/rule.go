package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/turtlethecat2/projectrift/internal/database"
	"github.com/turtlethecat2/projectrift/internal/models"
)

type ruleRepository struct {
	db *database.DB
}

// NewRuleRepository crée une nouvelle instance du repository des règles
func NewRuleRepository(db *database.DB) RuleRepository {
	return &ruleRepository{db: db}
}

// GetByEventType récupère la règle configurée pour un type d'événement
func (r *ruleRepository) GetByEventType(ctx context.Context, eventType string) (*models.Rule, error) {
	query := `
		SELECT event_type, gold_value, xp_value, display_name, description
		FROM gamification_rules
		WHERE event_type = $1`

	var rule models.Rule
	err := r.db.GetContext(ctx, &rule, query, eventType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewRuleNotFoundError(eventType)
		}
		return nil, models.NewStoreError("rule lookup", err)
	}

	return &rule, nil
}

// List récupère toutes les règles configurées
func (r *ruleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	query := `
		SELECT event_type, gold_value, xp_value, display_name, description
		FROM gamification_rules
		ORDER BY event_type`

	var rules []*models.Rule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, models.NewStoreError("rule list", err)
	}

	return rules, nil
}

// ValidateCoverage vérifie qu'une règle existe pour chaque type énuméré.
// L'absence d'une règle est une erreur de configuration, jamais un défaut
// silencieux.
func (r *ruleRepository) ValidateCoverage(ctx context.Context, eventTypes []string) error {
	rules, err := r.List(ctx)
	if err != nil {
		return err
	}

	configured := make(map[string]bool, len(rules))
	for _, rule := range rules {
		configured[rule.EventType] = true
	}

	var missing []string
	for _, eventType := range eventTypes {
		if !configured[eventType] {
			missing = append(missing, eventType)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing gamification rules for event types: %s", strings.Join(missing, ", "))
	}

	return nil
}
