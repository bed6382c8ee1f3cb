package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"user-directory/internal/config"
	"user-directory/internal/domain"
	"user-directory/internal/repository"
	"user-directory/internal/repository/sqlite"
)

// Seeds the database with the same sample users the original deployment
// shipped with. Existing emails are left alone, so reruns are safe.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	samples := []repository.CreateParams{
		{Name: "John Doe", Email: "john.doe@example.com", Age: intPtr(30), Status: domain.StatusActive},
		{Name: "Jane Smith", Email: "jane.smith@example.com", Age: intPtr(25), Status: domain.StatusActive},
		{Name: "Bob Johnson", Email: "bob.johnson@example.com", Age: intPtr(35), Status: domain.StatusInactive},
	}

	created := 0
	for _, params := range samples {
		if _, err := users.Insert(ctx, params); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				logger.Infof("skipping %s: already present", params.Email)
				continue
			}
			logger.Fatalf("seed %s: %v", params.Email, err)
		}
		created++
	}

	logger.Infof("seeding done, %d users created", created)
}

func intPtr(n int) *int {
	return &n
}
