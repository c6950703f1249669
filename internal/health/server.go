package health

import (
	"embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static/index.html
var staticFS embed.FS

// NewRouter builds the health HTTP surface: JSON status on "/" and
// "/health", the static dashboard on "/index.html", 404 elsewhere.
func NewRouter(cookieDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	jsonHandler := func(w http.ResponseWriter, req *http.Request) {
		report := Aggregate(cookieDir, time.Now())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}

	r.Get("/", jsonHandler)
	r.Get("/health", jsonHandler)
	r.Get("/index.html", func(w http.ResponseWriter, req *http.Request) {
		data, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "dashboard asset missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})

	return r
}
