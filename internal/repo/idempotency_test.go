package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-haiku-backend/internal/domain"
)

func newIdemDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

const testScope = "/api/v1/haiku/generate"

func TestGetIdempotency_BlankKey_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, testScope, "   ", time.Now().UTC())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:        "expired",
		Scope:     testScope,
		Key:       "k1",
		HaikuID:   1,
		Status:    201,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, testScope, "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	rec2, err2 := GetIdempotency(context.Background(), db, testScope, "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestCreateIdempotency_SuccessGetAndDuplicate(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()

	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, testScope, "k9", 9, 201, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.Scope != testScope || rec.Key != "k9" || rec.HaikuID != 9 || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	// loose bound to avoid timing flakes
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := GetIdempotency(ctx, db, testScope, "k9", time.Now().UTC())
	if err != nil || got.HaikuID != 9 {
		t.Fatalf("GetIdempotency: got %+v, %v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, testScope, "k9", 10, 201, ttl); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	for i, exp := range []time.Time{now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour)} {
		rec := &domain.Idempotency{
			ID: fmt.Sprintf("r%d", i), Scope: testScope, Key: fmt.Sprintf("k%d", i),
			HaikuID: uint(i + 1), Status: 201, CreatedAt: now, ExpiresAt: exp,
		}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil {
		t.Fatalf("PurgeExpiredIdempotency: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged rows, got %d", n)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 remaining row, got %d", left)
	}
}

// Generic DB error path: attempt insert without migrating the table.
func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newIdemDB(t)
	_, err := CreateIdempotency(context.Background(), db, testScope, "kX", 1, 201, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}
