package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/llm"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func allModels() []any {
	return []any{&domain.Country{}, &domain.Haiku{}, &domain.LogEntry{}}
}

func countLogs(t *testing.T, db *gorm.DB) []domain.LogEntry {
	t.Helper()
	var out []domain.LogEntry
	if err := db.Order("id ASC").Find(&out).Error; err != nil {
		t.Fatalf("read log entries: %v", err)
	}
	return out
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func strp(s string) *string { return &s }

// fakeLookup is a geo.Lookuper with canned answers.
type fakeLookup struct {
	codes map[string]string
	err   error
	calls []string
}

func (f *fakeLookup) LookupCountryCode(_ context.Context, ip string) (string, error) {
	f.calls = append(f.calls, ip)
	if f.err != nil {
		return "", f.err
	}
	return f.codes[ip], nil
}

// fakePoems is a PoemGenerator with a canned answer.
type fakePoems struct {
	poem   llm.Poem
	err    error
	calls  int
	themes []*string
}

func (f *fakePoems) GeneratePoem(_ context.Context, theme *string) (llm.Poem, error) {
	f.calls++
	f.themes = append(f.themes, theme)
	return f.poem, f.err
}

func (f *fakePoems) ProviderName() string { return "fake" }

// fakeResolver is a CountryResolver returning fixed values.
type fakeResolver struct {
	country *domain.Country
	err     error
}

func (f *fakeResolver) ResolveCountry(context.Context, RequestContext) (*domain.Country, error) {
	return f.country, f.err
}
