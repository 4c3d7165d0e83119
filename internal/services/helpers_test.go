package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-booking/internal/db"
	"rental-booking/internal/models"
	"rental-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	testLogger = zerolog.Nop()
	fixedNow   = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	dialect, err := db.DialectFor("sqlite")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn, dialect); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewStore(conn, dialect)
}

func clock() time.Time { return fixedNow }

func userActor(id string) models.Actor  { return models.Actor{UserID: id, Role: models.RoleUser} }
func adminActor(id string) models.Actor { return models.Actor{UserID: id, Role: models.RoleAdmin} }

// seedProperty inserts a property directly, bypassing the approval workflow.
func seedProperty(t *testing.T, store *repository.Store, status models.PropertyStatus, ptype models.PropertyType, price float64) *models.Property {
	t.Helper()
	p := &models.Property{
		ID:            uuid.NewString(),
		Title:         "Lake house",
		Description:   "Two bedrooms facing the lake",
		ContactName:   "Nimal",
		ContactNumber: "0771234567",
		PropertyType:  string(ptype),
		Price:         price,
		District:      "Kandy",
		Status:        string(status),
		RequestType:   string(models.RequestTypeAdd),
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
	if err := store.Properties.Create(context.Background(), p); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
