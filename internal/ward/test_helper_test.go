package ward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:ward_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&auth.Admin{}, &Ward{}, &Meeting{}, &logs.SystemLog{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func seedWard(t *testing.T, db *gorm.DB, id, name string) *Ward {
	t.Helper()

	w := Ward{
		ID:             id,
		WardName:       name,
		MeetingDay:     "Wednesday",
		MeetingTime:    "5:00 PM",
		Venue:          "Town Hall",
		FrequencyWeeks: 2,
		StartDate:      util.MustParseDate("2024-01-03"),
	}
	if err := db.Omit("Meetings", "WardAdmin").Create(&w).Error; err != nil {
		t.Fatalf("seed ward %s: %v", id, err)
	}
	return &w
}

func seedMeeting(t *testing.T, db *gorm.DB, wardID, date string) *Meeting {
	t.Helper()

	m := Meeting{
		WardID:      wardID,
		MeetingDate: util.MustParseDate(date),
		MeetingTime: "5:00 PM",
		Venue:       "Town Hall",
	}
	if err := db.Omit("Ward").Create(&m).Error; err != nil {
		t.Fatalf("seed meeting %s/%s: %v", wardID, date, err)
	}
	return &m
}

func seedAdmin(t *testing.T, db *gorm.DB, username string) *auth.Admin {
	t.Helper()

	a := auth.Admin{Username: username, Password: "hash"}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return &a
}

type mockWardService struct {
	ListWardsFn    func() ([]Ward, error)
	GetWardFn      func(id string) (*Ward, error)
	ListMeetingsFn func(wardID string) ([]Meeting, error)
	CreateWardFn   func(input WardInput) (*Ward, error)
	UpdateWardFn   func(id string, input WardInput) (*Ward, error)
	DeleteWardFn   func(id string) (int64, error)
	LoadWardsFn    func(out io.Writer) (*SeedResult, error)
}

func (m *mockWardService) ListWards() ([]Ward, error) {
	if m.ListWardsFn == nil {
		return nil, assertErr("ListWards not implemented")
	}
	return m.ListWardsFn()
}

func (m *mockWardService) GetWard(id string) (*Ward, error) {
	if m.GetWardFn == nil {
		return nil, assertErr("GetWard not implemented")
	}
	return m.GetWardFn(id)
}

func (m *mockWardService) ListMeetings(wardID string) ([]Meeting, error) {
	if m.ListMeetingsFn == nil {
		return nil, assertErr("ListMeetings not implemented")
	}
	return m.ListMeetingsFn(wardID)
}

func (m *mockWardService) CreateWard(input WardInput) (*Ward, error) {
	if m.CreateWardFn == nil {
		return nil, assertErr("CreateWard not implemented")
	}
	return m.CreateWardFn(input)
}

func (m *mockWardService) UpdateWard(id string, input WardInput) (*Ward, error) {
	if m.UpdateWardFn == nil {
		return nil, assertErr("UpdateWard not implemented")
	}
	return m.UpdateWardFn(id, input)
}

func (m *mockWardService) DeleteWard(id string) (int64, error) {
	if m.DeleteWardFn == nil {
		return 0, assertErr("DeleteWard not implemented")
	}
	return m.DeleteWardFn(id)
}

func (m *mockWardService) LoadWards(out io.Writer) (*SeedResult, error) {
	if m.LoadWardsFn == nil {
		return nil, assertErr("LoadWards not implemented")
	}
	return m.LoadWardsFn(out)
}

type mockLogService struct {
	entries  []logs.SystemLog
	payloads []any
	err      error
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	m.entries = append(m.entries, entry)
	m.payloads = append(m.payloads, payload)
	return m.err
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func setupRouter(svc WardServicePort, ls LogServicePort) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	wc := &WardController{WardService: svc, LS: ls}
	api := r.Group("/api")
	api.GET("/", APIRoot)
	wards := api.Group("/wards")
	handle(wards, http.MethodGet, "", wc.ListWards)
	handle(wards, http.MethodPost, "", wc.CreateWard)
	handle(wards, http.MethodGet, "/:id", wc.GetWard)
	handle(wards, http.MethodPatch, "/:id", wc.UpdateWard)
	handle(wards, http.MethodPut, "/:id", wc.ReplaceWard)
	handle(wards, http.MethodDelete, "/:id", wc.DeleteWard)
	handle(wards, http.MethodPost, "/:id/update_details", wc.UpdateWard)
	handle(wards, http.MethodGet, "/:id/meetings", wc.GetWardMeetings)
	return r
}

func newDBRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, &WardService{DB: db}, &logs.LogService{DB: db})
	return r, db
}

func doJSON(r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, w.Body.String())
	}
}
