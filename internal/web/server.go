package web

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"network-quality/internal/analysis"
	"network-quality/internal/config"
	"network-quality/internal/models"
)

// recentLimit is how many records the live snapshot carries
const recentLimit = 20

// Server serves the dashboard API, charts and static page
type Server struct {
	log         models.RecordReader
	index       models.Index
	addr        string
	refresh     time.Duration
	staticFiles fs.FS
	limiter     *rate.Limiter
	logger      *logrus.Logger
	now         func() time.Time

	mu       sync.RWMutex
	snapshot snapshot
}

// snapshot is the payload pushed to live dashboard clients
type snapshot struct {
	GeneratedAt  time.Time              `json:"generated_at"`
	TotalRecords int                    `json:"total_records"`
	Summary      *models.Summary        `json:"summary,omitempty"`
	StatusCounts []models.StatusCount   `json:"status_counts"`
	Hourly       []models.HourlyPattern `json:"hourly"`
	Recent       []models.Record        `json:"recent"`
}

// New creates a new web server. staticFS must hold the page assets at its root.
func New(cfg config.WebConfig, log models.RecordReader, index models.Index, staticFS fs.FS, logger *logrus.Logger) *Server {
	return &Server{
		log:         log,
		index:       index,
		addr:        cfg.Addr,
		refresh:     cfg.RefreshInterval(),
		staticFiles: staticFS,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:      logger,
		now:         time.Now,
	}
}

// Handler builds the full HTTP handler stack
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.Handle("GET /api/records", noCache(http.HandlerFunc(s.handleRecords)))
	mux.Handle("GET /api/summary", noCache(http.HandlerFunc(s.handleSummary)))
	mux.Handle("GET /api/hourly", noCache(http.HandlerFunc(s.handleHourly)))
	mux.Handle("GET /api/status", noCache(http.HandlerFunc(s.handleStatus)))
	mux.Handle("GET /charts/{name}", noCache(http.HandlerFunc(s.handleChart)))
	mux.HandleFunc("GET /ws", s.handleWS)

	// Static files
	mux.Handle("GET /", http.FileServer(http.FS(s.staticFiles)))

	return s.rateLimit(mux)
}

// Run refreshes the dashboard data periodically and serves HTTP until ctx
// is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		// Hijacked websocket connections are not closed by Shutdown; they
		// watch the request context instead.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.refreshWorker(ctx)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("Server shutdown: %v", err)
		}
	}()

	s.logger.Infof("Web server starting on %s", s.addr)
	err := srv.ListenAndServe()
	wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// refreshWorker re-reads the log on every tick
func (s *Server) refreshWorker(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	// Refresh immediately on start
	s.refreshSnapshot()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshSnapshot()
		}
	}
}

// refreshSnapshot syncs the index with the log and rebuilds the live snapshot
func (s *Server) refreshSnapshot() {
	records, err := s.log.ReadAll()
	if err != nil {
		s.logger.Errorf("Failed to read log: %v", err)
		return
	}

	added, err := s.index.Sync(records)
	if err != nil {
		s.logger.Errorf("Failed to sync index: %v", err)
	} else if added > 0 {
		s.logger.Debugf("Indexed %d new records", added)
	}

	snap := snapshot{
		GeneratedAt:  s.now(),
		TotalRecords: len(records),
		StatusCounts: analysis.StatusCounts(records),
		Recent:       tail(records, recentLimit),
	}
	if summary, err := analysis.Summarize(records); err == nil {
		snap.Summary = &summary
	}
	if hourly, err := s.index.HourlyPatterns(0); err == nil {
		snap.Hourly = hourly
	} else {
		s.logger.Errorf("Failed to query hourly patterns: %v", err)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

func (s *Server) latest() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func tail(records []models.Record, n int) []models.Record {
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}
