package logs

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cleanup := func() { _ = db.Close() }
	return gdb, mock, cleanup
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:logs_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&SystemLog{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func TestLogService_Log_Inserts(t *testing.T) {
	t.Run("metadata nil", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		// nil metadata is written as a NULL literal, not a bound argument
		mock.ExpectQuery(`INSERT INTO "logs" .*VALUES \(.*NULL.*\)`).
			WithArgs(
				"INFO",           // level
				"wards",          // service
				sqlmock.AnyArg(), // admin_id
				"UPDATE_WARD",    // action
				sqlmock.AnyArg(), // message
				sqlmock.AnyArg(), // ward_ids
				sqlmock.AnyArg(), // created_at
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := ls.Log(SystemLog{
			Service: "wards",
			AdminID: ptrUint(7),
			Action:  "UPDATE_WARD",
			Message: "ok",
			WardIDs: pq.StringArray{"ward-1"},
		}, nil)

		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("metadata marshal fails (ignored)", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		mock.ExpectQuery(`INSERT INTO "logs" .*VALUES \(.*NULL.*\)`).
			WithArgs(
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		err := ls.Log(SystemLog{
			Level:   LevelWarn,
			Service: "svc",
			Action:  "act",
			Message: "msg",
		}, func() {})

		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("insert error returned", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		mock.ExpectQuery(`INSERT INTO "logs"`).
			WillReturnError(errors.New("insert failed"))

		err := ls.Log(SystemLog{Service: "wards", Action: "CREATE_WARD", Message: "m"}, map[string]any{"k": "v"})
		if err == nil || err.Error() != "insert failed" {
			t.Fatalf("expected insert failed, got %v", err)
		}
	})
}

func TestLogService_Log_StoresMetadataJSON(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	if err := ls.Log(SystemLog{
		Service: "wards",
		Action:  "UPDATE_WARD",
		Message: "Updated ward ward-1",
		WardIDs: pq.StringArray{"ward-1"},
	}, map[string]any{"venue": "Hall"}); err != nil {
		t.Fatalf("log: %v", err)
	}

	var got SystemLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Level != LevelInfo {
		t.Fatalf("expected default level INFO, got %q", got.Level)
	}
	if string(got.Metadata) != `{"venue":"Hall"}` {
		t.Fatalf("unexpected metadata: %s", string(got.Metadata))
	}
	if len(got.WardIDs) != 1 || got.WardIDs[0] != "ward-1" {
		t.Fatalf("unexpected ward ids: %#v", got.WardIDs)
	}
}

func TestLogService_Recent_FiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	now := time.Now()
	seed := []SystemLog{
		{Level: LevelInfo, Service: "wards", Action: "UPDATE_WARD", Message: "a", CreatedAt: now.Add(-2 * time.Minute)},
		{Level: LevelInfo, Service: "wards", Action: "DELETE_WARD", Message: "b", CreatedAt: now.Add(-time.Minute)},
		{Level: LevelInfo, Service: "auth", Action: "LOGIN", Message: "c", CreatedAt: now},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := ls.Recent(LogFilterInput{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 3 || all[0].Message != "c" {
		t.Fatalf("expected newest first, got %#v", all)
	}

	wards, err := ls.Recent(LogFilterInput{Service: "wards"})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(wards) != 2 || wards[0].Action != "DELETE_WARD" {
		t.Fatalf("unexpected filtered rows: %#v", wards)
	}

	limited, err := ls.Recent(LogFilterInput{Limit: 1})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 row, got %d", len(limited))
	}
}

func TestLogService_Recent_DBClosed_ReturnsError(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()

	if _, err := ls.Recent(LogFilterInput{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func ptrUint(u uint) *uint { return &u }
