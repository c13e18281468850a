package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/panyam/caresim/runtime"
	"github.com/panyam/caresim/viz"
)

const workspaceKey = "workspace"

// ServerOptions configures a Server. Zero values pick defaults.
type ServerOptions struct {
	Palette         []string
	Window          ReportingWindow
	SessionLifetime time.Duration
	Simulator       *runtime.Simulator
	Plotter         viz.Plotter
}

type workspaceEntry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Server is the dashboard HTTP API. Each browser session gets its own
// Workspace, kept in memory until the session lifetime lapses.
type Server struct {
	sessions  *scs.SessionManager
	simulator *runtime.Simulator
	plotter   viz.Plotter
	palette   []string
	window    ReportingWindow
	lifetime  time.Duration

	mu         sync.Mutex
	workspaces map[string]*workspaceEntry
	ids        runtime.SimpleIDGen
	now        func() time.Time
}

func NewServer(opts ServerOptions) *Server {
	if opts.SessionLifetime <= 0 {
		opts.SessionLifetime = 12 * time.Hour
	}
	if opts.Simulator == nil {
		opts.Simulator = runtime.NewSimulator(nil)
	}
	if opts.Plotter == nil {
		opts.Plotter = viz.NewSVGPlotter(viz.DefaultPlotConfig())
	}
	sessions := scs.New()
	sessions.Lifetime = opts.SessionLifetime
	sessions.Cookie.Name = "caresim_session"
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	return &Server{
		sessions:   sessions,
		simulator:  opts.Simulator,
		plotter:    opts.Plotter,
		palette:    opts.Palette,
		window:     opts.Window,
		lifetime:   opts.SessionLifetime,
		workspaces: make(map[string]*workspaceEntry),
		now:        time.Now,
	}
}

// Handler wires routes, sessions and access logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router)
	return accessLog(s.sessions.LoadAndSave(router))
}

// RegisterRoutes registers the dashboard and API routes.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", s.Index).Methods("GET")
	router.HandleFunc("/api/health", s.Health).Methods("GET")
	router.HandleFunc("/api/simulations", s.Simulate).Methods("POST")

	router.HandleFunc("/api/comparisons", s.ListComparisons).Methods("GET")
	router.HandleFunc("/api/comparisons", s.SaveComparison).Methods("POST")
	router.HandleFunc("/api/comparisons/{id}", s.GetComparison).Methods("GET")
	router.HandleFunc("/api/comparisons/{id}", s.RemoveComparison).Methods("DELETE")
	router.HandleFunc("/api/comparisons/{id}/toggle", s.ToggleComparison).Methods("POST")

	// Renderings of a single saved comparison
	router.HandleFunc("/api/comparisons/{id}/chart.svg", s.ComparisonChart).Methods("GET")
	router.HandleFunc("/api/comparisons/{id}/export.xlsx", s.ExportXLSX).Methods("GET")
	router.HandleFunc("/api/comparisons/{id}/export.csv", s.ExportCSV).Methods("GET")

	router.HandleFunc("/api/overlays", s.Overlays).Methods("GET")
	router.HandleFunc("/api/overlays/{chart}.svg", s.OverlayChart).Methods("GET")
}

// workspace returns the caller's workspace, creating it (and the session
// key) on first use. Expired workspaces are dropped on the way.
func (s *Server) workspace(r *http.Request) *Workspace {
	key := s.sessions.GetString(r.Context(), workspaceKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.workspaces {
		if now.Sub(e.lastSeen) > s.lifetime {
			delete(s.workspaces, k)
		}
	}

	if e, ok := s.workspaces[key]; ok && key != "" {
		e.lastSeen = now
		return e.ws
	}
	if key == "" {
		key = s.ids.NextID("ws")
		s.sessions.Put(r.Context(), workspaceKey, key)
	}
	e := &workspaceEntry{ws: NewWorkspace(s.palette), lastSeen: now}
	s.workspaces[key] = e
	runtime.Debug("console: new workspace %s", key)
	return e.ws
}

// WorkspaceCount reports how many session workspaces are live.
func (s *Server) WorkspaceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		runtime.Info("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, m.Code, m.Written, m.Duration)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		runtime.Error("console: encoding response: %v", err)
	}
}

var errBadRequest = errors.New("bad request")

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
