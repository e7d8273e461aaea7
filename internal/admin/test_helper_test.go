package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"
	"ward-calendar-api/internal/util"
	"ward-calendar-api/internal/ward"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "admin-test-secret"

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:admin_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&auth.Admin{}, &ward.Ward{}, &ward.Meeting{}, &logs.SystemLog{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func seedWard(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()

	w := ward.Ward{
		ID:             id,
		WardName:       name,
		MeetingDay:     "Saturday",
		MeetingTime:    "10:00 AM",
		Venue:          "Outreach Center",
		FrequencyWeeks: 2,
		StartDate:      util.MustParseDate("2024-01-06"),
	}
	if err := db.Omit("Meetings", "WardAdmin").Create(&w).Error; err != nil {
		t.Fatalf("seed ward: %v", err)
	}
}

func seedMeeting(t *testing.T, db *gorm.DB, wardID, date string, cancelled bool) *ward.Meeting {
	t.Helper()

	agenda := "Roll call"
	m := ward.Meeting{
		WardID:      wardID,
		MeetingDate: util.MustParseDate(date),
		MeetingTime: "10:00 AM",
		Venue:       "Outreach Center",
		Agenda:      &agenda,
		IsCancelled: cancelled,
	}
	if err := db.Omit("Ward").Create(&m).Error; err != nil {
		t.Fatalf("seed meeting: %v", err)
	}
	return &m
}

func newConsoleRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/admin")
	RegisterRoutes(group, &AdminService{DB: db}, &ward.WardService{DB: db}, &logs.LogService{DB: db}, testSecret)
	return r
}

func sessionCookie(t *testing.T, adminID int) *http.Cookie {
	t.Helper()

	token, err := middlewares.IssueAdminToken(testSecret, adminID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &http.Cookie{Name: middlewares.AccessTokenCookie, Value: token}
}

func doReq(r http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}
