package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/essenciabjj/trial/internal/db"
	"github.com/essenciabjj/trial/internal/models"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := db.NewStore(conn)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestOpen_WALMode verifies the default sqlite parameters enable WAL.
func TestOpen_WALMode(t *testing.T) {
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "wal.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var mode string
	conn.Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

// TestOpen_CreatesIndexes checks the migrations ran, including indexes.
func TestOpen_CreatesIndexes(t *testing.T) {
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "idx.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	found := indexNames(t, sqlDB, "trial_registrations")
	for _, want := range []string{"idx_trial_reg_created_at", "idx_trial_reg_class"} {
		if !found[want] {
			t.Errorf("index %q missing; found: %v", want, found)
		}
	}
}

// Opening twice must not re-run applied migrations.
func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		conn, err := db.Open("sqlite", path, zap.NewNop())
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := db.Open("oracle", "x", zap.NewNop()); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestStore_InsertAssignsIDAndStatus(t *testing.T) {
	s := openTestStore(t)
	reg := models.Registration{
		FullName:     "Ana Silva",
		Phone:        "11999999999",
		Age:          10,
		ClassDay:     "Saturday",
		ClassTime:    "9:00 AM to 9:50 AM",
		ClassName:    "KIDS NO GI 6 - 15",
		SpecificDate: "08/06 (9am-9:50am)",
		CreatedAt:    "2024-06-03",
	}
	if err := s.Insert(context.Background(), &reg); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if reg.ID == "" {
		t.Error("expected generated id")
	}
	if reg.Status != models.StatusPending {
		t.Errorf("expected pending status, got %q", reg.Status)
	}

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0] != reg {
		t.Errorf("stored row differs:\n got %+v\nwant %+v", got, reg)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	for _, day := range []string{"2024-06-01", "2024-06-03", "2024-06-02"} {
		reg := models.Registration{
			FullName: "P " + day, Phone: "1", Age: 30,
			ClassDay: "Monday", ClassTime: "7:00 PM to 8:30 PM", ClassName: "ADULT GI",
			SpecificDate: "03/06 (7pm-8:30pm)", CreatedAt: day,
		}
		if err := s.Insert(context.Background(), &reg); err != nil {
			t.Fatalf("insert %s: %v", day, err)
		}
	}

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-06-03", "2024-06-02", "2024-06-01"}
	for i, w := range want {
		if got[i].CreatedAt != w {
			t.Errorf("row %d: want %s, got %s", i, w, got[i].CreatedAt)
		}
	}
}

func TestStore_DuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	reg := models.Registration{ID: "fixed", FullName: "A", Phone: "1", Age: 20,
		ClassDay: "Monday", ClassTime: "t", ClassName: "c", SpecificDate: "d", CreatedAt: "2024-06-03"}
	if err := s.Insert(context.Background(), &reg); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	dup := reg
	if err := s.Insert(context.Background(), &dup); err == nil {
		t.Error("expected constraint violation on duplicate id")
	}
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[name] = true
	}
	return out
}

func TestOpen_GormErrorsGoThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "log.db"), zap.New(core))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := conn.DB()
	defer sqlDB.Close()

	if err := conn.Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected query error")
	}
	if n := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" }).FilterLevelExact(zapcore.WarnLevel).Len(); n == 0 {
		t.Error("expected the failed query to be logged by the gorm zap logger")
	}
	if logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "goose" }).Len() == 0 {
		t.Error("expected migration output on the goose logger")
	}
}
