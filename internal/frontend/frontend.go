package frontend

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DefaultCandidates are tried in order when no root is configured.
var DefaultCandidates = []string{"dist", "frontend/dist", "../dist", "static"}

const indexFile = "index.html"

// Resolve picks the directory the SPA is served from. A configured root always
// wins; otherwise the first candidate holding an index.html, falling back to
// the first candidate.
func Resolve(configured string, candidates []string) string {
	if root := strings.TrimSpace(configured); root != "" {
		return root
	}
	for _, dir := range candidates {
		if info, err := os.Stat(filepath.Join(dir, indexFile)); err == nil && !info.IsDir() {
			return dir
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return "dist"
}

type Options struct {
	Root          string
	StaticPrefix  string
	RewriteAssets bool
	Logger        zerolog.Logger
}

type Handler struct {
	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.StaticPrefix == "" {
		opts.StaticPrefix = "/static/"
	}
	return &Handler{opts: opts}
}

// Index serves the SPA shell, or the placeholder page while the build is
// missing.
func (h *Handler) Index(c *gin.Context) {
	path := filepath.Join(h.opts.Root, indexFile)
	content, err := os.ReadFile(path)
	if err != nil {
		h.opts.Logger.Warn().Err(err).Str("path", path).Msg("frontend index unavailable, serving placeholder")
		h.placeholder(c)
		return
	}

	if h.opts.RewriteAssets {
		content = bytes.ReplaceAll(content, []byte(`"/assets/`), []byte(`"`+h.opts.StaticPrefix+`assets/`))
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

// NoRoute keeps API and console misses as JSON and hands everything else to
// the SPA router.
func (h *Handler) NoRoute(c *gin.Context) {
	p := c.Request.URL.Path
	if isAPIPath(p) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	h.Index(c)
}

func isAPIPath(p string) bool {
	for _, prefix := range []string{"/api", "/admin"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

var placeholderTmpl = template.Must(template.New("placeholder").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #f5f7f5; color: #1f2d1f; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
main { max-width: 32rem; padding: 2rem; text-align: center; }
code { background: #e3e9e3; padding: 0 .25rem; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>The frontend build was not found in <code>{{.Root}}</code>.</p>
<p>The API is running at <a href="/api/">/api/</a>. This page reloads every 5 seconds.</p>
</main>
</body>
</html>
`))

func (h *Handler) placeholder(c *gin.Context) {
	var buf bytes.Buffer
	err := placeholderTmpl.Execute(&buf, map[string]string{
		"Title": "Frontend is not ready yet",
		"Root":  h.opts.Root,
	})
	if err != nil {
		c.String(http.StatusOK, "Frontend is not ready yet.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// RegisterRoutes mounts the static file server, the SPA index and the
// fallback on the engine. It must run after every API route is registered.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Static(strings.TrimSuffix(h.opts.StaticPrefix, "/"), h.opts.Root)
	r.GET("/", h.Index)
	r.NoRoute(h.NoRoute)
}
