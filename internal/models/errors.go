package models

import "fmt"

// ValidationError payload malformé ou hors énumération (422 au niveau HTTP)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RuleNotFoundError aucune règle configurée pour ce type d'événement.
// Condition visible par l'appelant (422), pas une faute interne.
type RuleNotFoundError struct {
	EventType string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("no gamification rule configured for event type: %s", e.EventType)
}

// StoreError échec de persistance; l'unité de travail courante a été annulée
// avant propagation (500 au niveau HTTP)
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PoolExhaustedError toutes les connections du pool sont occupées
type PoolExhaustedError struct {
	Err error
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("database connection pool exhausted: %v", e.Err)
}

func (e *PoolExhaustedError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func NewRuleNotFoundError(eventType string) error {
	return &RuleNotFoundError{EventType: eventType}
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func NewPoolExhaustedError(err error) error {
	return &PoolExhaustedError{Err: err}
}
