// Package testutil spins up throwaway Postgres instances for integration
// tests and provides fixture helpers for the domain models.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stackit-dev/stackit/backend/internal/models"
)

// Start launches a Postgres container, opens a gorm connection and migrates
// the schema. Intended for TestMain; the caller terminates the container.
func Start(ctx context.Context) (testcontainers.Container, *gorm.DB, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stackit_test"),
		tcpostgres.WithUsername("stackit"),
		tcpostgres.WithPassword("stackit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("starting postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("opening gorm connection: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Notification{},
	)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("migrating schema: %w", err)
	}

	return container, db, nil
}

var userSeq int64

// CreateUser inserts a user with a unique username/email derived from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	n := atomic.AddInt64(&userSeq, 1)
	user := models.User{
		Username: fmt.Sprintf("%s_%d", name, n),
		Email:    fmt.Sprintf("%s_%d@example.com", name, n),
		Password: "x",
		Role:     models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return user
}

// CreateQuestion inserts a question owned by authorID.
func CreateQuestion(t *testing.T, db *gorm.DB, authorID int, title string) models.Question {
	t.Helper()
	question := models.Question{
		Title:       title,
		Description: "description of " + title,
		AuthorID:    authorID,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("creating question %q: %v", title, err)
	}
	return question
}

// CreateAnswer inserts an answer on questionID by authorID.
func CreateAnswer(t *testing.T, db *gorm.DB, questionID, authorID int) models.Answer {
	t.Helper()
	answer := models.Answer{
		Content:    "an answer",
		AuthorID:   authorID,
		QuestionID: questionID,
	}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("creating answer: %v", err)
	}
	return answer
}
