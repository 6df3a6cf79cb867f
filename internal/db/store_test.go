package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/fe-select/backend/internal/customer"
	"github.com/fe-select/backend/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestLeadCRUD(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.CreateLead(ctx, models.Lead{
		FirstName:        "Mary",
		LastName:         "Smith",
		Phone:            "555-0100",
		TobaccoUse:       false,
		HealthConditions: []string{"Diabetes"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = store.DeleteLead(ctx, id) }()

	lead, err := store.GetLead(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.FirstName != "Mary" || len(lead.HealthConditions) != 1 {
		t.Fatalf("unexpected lead: %+v", lead)
	}

	lead.LastName = "Jones"
	if err := store.UpdateLead(ctx, lead); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, err := store.ListLeads(ctx, "", "jones", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, l := range items {
		if l.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatal("updated lead not found by search")
	}

	if err := store.DeleteLead(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetLead(ctx, id); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows after delete, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	data := customer.Data{"customer_first_name": "Mary", "tobacco_use": "No"}
	if err := store.SaveSessionData(ctx, sess.ID, data, []string{"introduction"}); err != nil {
		t.Fatalf("save data: %v", err)
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CustomerData.String("customer_first_name") != "Mary" {
		t.Fatalf("snapshot not persisted: %+v", got.CustomerData)
	}
	if len(got.CompletedSections) != 1 || got.CompletedSections[0] != "introduction" {
		t.Fatalf("completed sections = %v", got.CompletedSections)
	}

	if err := store.FinishSession(ctx, sess.ID, "completed", "test call"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got, err = store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get after finish: %v", err)
	}
	if got.Outcome != "completed" || got.EndedAt == nil {
		t.Fatalf("session not finished: outcome=%q ended=%v", got.Outcome, got.EndedAt)
	}
}
