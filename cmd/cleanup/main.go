package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turtlethecat2/projectrift/internal/config"
	"github.com/turtlethecat2/projectrift/internal/database"
	"github.com/turtlethecat2/projectrift/internal/repository"
	"github.com/turtlethecat2/projectrift/internal/service"
)

// Outil de rétention: supprime les événements plus anciens que N jours.
// Les entrées d'audit associées suivent en cascade.

func main() {
	var (
		days   = flag.Int("days", 0, "delete events older than this many days (default: configured retention)")
		dryRun = flag.Bool("dry-run", false, "count matching events without deleting")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	olderThan := *days
	if olderThan <= 0 {
		olderThan = cfg.Retention.MaxAgeDays
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepository(db)
	retention := service.NewRetentionService(eventRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	affected, err := retention.Cleanup(ctx, olderThan, *dryRun)
	if err != nil {
		logrus.Errorf("Retention cleanup failed: %v", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("dry-run: %d events older than %d days\n", affected, olderThan)
	} else {
		fmt.Printf("deleted %d events older than %d days\n", affected, olderThan)
	}
}
