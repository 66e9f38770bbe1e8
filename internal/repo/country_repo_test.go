package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

func TestCountry_FindMissing_CreateThenFind(t *testing.T) {
	db := newTestDB(t, &domain.Country{})
	ctx := context.Background()

	if _, err := FindCountryByName(ctx, db, "Portugal"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c, err := CreateCountry(ctx, db, "Portugal", "PT")
	if err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}
	if c.ID == 0 || c.Abbr != "PT" {
		t.Fatalf("unexpected country: %+v", c)
	}

	got, err := FindCountryByName(ctx, db, "Portugal")
	if err != nil {
		t.Fatalf("FindCountryByName: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("expected id %d, got %d", c.ID, got.ID)
	}
}

func TestCreateCountry_DuplicateName(t *testing.T) {
	db := newTestDB(t, &domain.Country{})
	ctx := context.Background()

	if _, err := CreateCountry(ctx, db, "Chile", "CL"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := CreateCountry(ctx, db, "Chile", "CL"); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateCountry_Error_NoTable(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateCountry(context.Background(), db, "Peru", "PE")
	if err == nil || err == ErrDuplicate {
		t.Fatalf("expected a non-duplicate error, got %v", err)
	}
}
