package auth

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var testDBSeq uint64

type mockAuthService struct {
	CreateAdminFn  func(username, password string) (*Admin, error)
	GetAdminFn     func(username string) (*Admin, error)
	GetAdminByIDFn func(id int) (*Admin, error)
	GetAllAdminsFn func() ([]Admin, error)
	DeleteAdminFn  func(id int) (*Admin, error)
	AuthenticateFn func(username, password string) (*Admin, error)
}

func (m *mockAuthService) CreateAdmin(username, password string) (*Admin, error) {
	if m.CreateAdminFn == nil {
		return nil, assertErr("CreateAdmin not implemented")
	}
	return m.CreateAdminFn(username, password)
}

func (m *mockAuthService) GetAdmin(username string) (*Admin, error) {
	if m.GetAdminFn == nil {
		return nil, assertErr("GetAdmin not implemented")
	}
	return m.GetAdminFn(username)
}

func (m *mockAuthService) GetAdminByID(id int) (*Admin, error) {
	if m.GetAdminByIDFn == nil {
		return nil, assertErr("GetAdminByID not implemented")
	}
	return m.GetAdminByIDFn(id)
}

func (m *mockAuthService) GetAllAdmins() ([]Admin, error) {
	if m.GetAllAdminsFn == nil {
		return nil, assertErr("GetAllAdmins not implemented")
	}
	return m.GetAllAdminsFn()
}

func (m *mockAuthService) DeleteAdmin(id int) (*Admin, error) {
	if m.DeleteAdminFn == nil {
		return nil, assertErr("DeleteAdmin not implemented")
	}
	return m.DeleteAdminFn(id)
}

func (m *mockAuthService) Authenticate(username, password string) (*Admin, error) {
	if m.AuthenticateFn == nil {
		return nil, assertErr("Authenticate not implemented")
	}
	return m.AuthenticateFn(username, password)
}

type mockLogService struct {
	LogFn func(entry logs.SystemLog, payload any) error
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	if m.LogFn == nil {
		return nil
	}
	return m.LogFn(entry, payload)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// setupAuthRouter stands in for the session middleware: X-AdminID sets the
// current admin directly.
func setupAuthRouter(ac *AuthController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-AdminID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Set(middlewares.AdminIDKey, id)
			}
		}
		c.Next()
	})

	r.POST("/login", ac.Login)
	r.POST("/logout", ac.Logout)
	r.GET("/me", ac.Me)
	r.GET("/admins", ac.GetAdmins)
	r.POST("/admins", ac.CreateAdmin)
	r.DELETE("/admins/:id", ac.DeleteAdmin)

	return r
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Admin{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	// Minimal wards table so admin deletion can unlink ward admins.
	if err := db.Exec(`CREATE TABLE wards (id TEXT PRIMARY KEY, ward_name TEXT, ward_admin_id INTEGER)`).Error; err != nil {
		t.Fatalf("create wards: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}

	return db
}

func postJSON(r http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	return postJSONWithHeader(r, path, body, "", "")
}

func postJSONWithHeader(r http.Handler, path string, body []byte, key, value string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(key, value)
	}
	r.ServeHTTP(w, req)
	return w
}

func doReqWithHeader(r http.Handler, method, path, key, value string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(key, value)
	}
	r.ServeHTTP(w, req)
	return w
}

func requireContains(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected %q to contain %q", s, sub)
	}
}

func cookieHeader(resp *http.Response, name string) (string, bool) {
	prefix := name + "="
	for _, h := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(h, prefix) {
			return h, true
		}
	}
	return "", false
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
