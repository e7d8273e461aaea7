package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	Port          string
	JWTSecret     string
	CORSOrigins   []string
	StaticRoot    string
	StaticURL     string
	RewriteAssets bool
	SecureCookies bool
	SeedOnStart   bool
	Debug         bool
}

func LoadConfig() Config {
	return Config{
		DBDriver:   os.Getenv("DB_DRIVER"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  os.Getenv("DB_SSLMODE"),
		SQLitePath: os.Getenv("SQLITE_PATH"),

		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
		StaticRoot:    os.Getenv("STATIC_ROOT"),
		StaticURL:     os.Getenv("STATIC_URL"),
		RewriteAssets: envBool("REWRITE_ASSET_PATHS"),
		SecureCookies: envBool("SECURE_COOKIES"),
		SeedOnStart:   envBool("SEED_ON_START"),
		Debug:         envBool("DEBUG"),
	}
}

// Driver picks postgres when a host is configured, sqlite otherwise.
func (c Config) Driver() string {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	}
	if c.DBHost != "" {
		return "postgres"
	}
	return "sqlite"
}

func (c Config) PostgresDSN() string {
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	sslmode := c.DBSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + port +
		" sslmode=" + sslmode
}

func (c Config) SQLiteDSN() string {
	path := c.SQLitePath
	if path == "" {
		path = "wards.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// Pragmas applied to every pooled connection. The busy timeout lets a writer
// wait for the file lock instead of failing with SQLITE_BUSY.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

func (c Config) ListenAddr() string {
	port := c.Port
	if port == "" {
		port = "8000"
	}
	return fmt.Sprintf("0.0.0.0:%s", port)
}

// StaticPrefix always starts and ends with a slash.
func (c Config) StaticPrefix() string {
	p := strings.TrimSpace(c.StaticURL)
	if p == "" {
		return "/static/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (c Config) AllowedOrigins() []string {
	if len(c.CORSOrigins) > 0 {
		return c.CORSOrigins
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}
