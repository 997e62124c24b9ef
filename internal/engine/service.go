package engine

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/homectl/internal/control"
	"github.com/danmuck/homectl/internal/mirror"
	"github.com/danmuck/homectl/internal/perms"
	"github.com/danmuck/homectl/internal/status"
)

// ServiceConfig is the resolved runtime configuration for one migration run.
type ServiceConfig struct {
	ControlFile     string
	LogDir          string
	Columns         []string
	AdHoc           bool
	DryRun          bool
	StatusAddr      string
	CorsOrigins     []string
	MirrorTool      string
	MirrorRetries   int
	MirrorRetryWait int
	AdminPrincipal  string
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Columns:         control.Columns,
		MirrorTool:      "robocopy",
		MirrorRetries:   5,
		MirrorRetryWait: 10,
	}
}

// Service is the top-level runner: load the control table, process every
// record in file order, persist the table back with a timestamped backup.
type Service struct {
	cfg ServiceConfig

	// Engine is replaceable so tests can inject fake capabilities.
	Engine *Engine

	mu       sync.Mutex
	progress []status.Snapshot
}

func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if len(cfg.Columns) == 0 {
		cfg.Columns = control.Columns
	}
	if cfg.MirrorTool == "" {
		cfg.MirrorTool = "robocopy"
	}
	if cfg.MirrorRetries <= 0 {
		cfg.MirrorRetries = 5
	}
	if cfg.MirrorRetryWait <= 0 {
		cfg.MirrorRetryWait = 10
	}
	return &Service{
		cfg: cfg,
		Engine: &Engine{
			Perms: perms.New(cfg.AdminPrincipal),
			Mirror: mirror.Tool{
				Binary:    cfg.MirrorTool,
				Retries:   cfg.MirrorRetries,
				RetryWait: cfg.MirrorRetryWait,
			},
			Log: log.Logger,
		},
	}
}

// Run executes one migration run. Only two conditions are fatal: the control
// table failing to load, and the pre-save backup failing. Everything that
// goes wrong inside a single record stays inside that record.
func (s *Service) Run() error {
	ctx := RunContext{
		Started: time.Now(),
		LogDir:  s.cfg.LogDir,
		AdHoc:   s.cfg.AdHoc,
		DryRun:  s.cfg.DryRun,
	}

	records, err := control.Load(s.cfg.ControlFile, s.cfg.Columns)
	if err != nil {
		return fmt.Errorf("load control table: %w", err)
	}
	s.initProgress(records)

	// Logging is best-effort; a missing log directory must not abort the run.
	if err := os.MkdirAll(s.cfg.LogDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", s.cfg.LogDir).Msg("log directory unavailable")
	}

	log.Info().
		Str("control_file", s.cfg.ControlFile).
		Str("mode", ctx.Mode()).
		Bool("dry_run", ctx.DryRun).
		Int("records", len(records)).
		Msg("migration run starting")

	if s.cfg.StatusAddr != "" {
		srv := status.New(ctx.Stamp(), s.snapshot, s.cfg.CorsOrigins)
		srv.Start(s.cfg.StatusAddr)
		defer srv.Shutdown()
	}

	var migrated, failed, skipped int
	for i, rec := range records {
		switch s.Engine.Process(rec, ctx) {
		case OutcomeMigrated:
			migrated++
		case OutcomeFailed:
			failed++
		default:
			skipped++
		}
		s.markProcessed(i, rec)
	}

	log.Info().
		Int("migrated", migrated).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("migration run finished")

	backupSuffix := "." + ctx.Stamp() + ".bak"
	if err := control.Save(s.cfg.ControlFile, records, s.cfg.Columns, backupSuffix); err != nil {
		return fmt.Errorf("save control table: %w", err)
	}
	return nil
}

func (s *Service) initProgress(records []*control.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = make([]status.Snapshot, len(records))
	for i, rec := range records {
		s.progress[i] = status.Snapshot{
			UserName: rec.UserName,
			Active:   rec.MigrationActive,
			Result:   string(rec.LastMigrationResult),
		}
	}
}

func (s *Service) markProcessed(i int, rec *control.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[i] = status.Snapshot{
		UserName:  rec.UserName,
		Active:    rec.MigrationActive,
		Result:    string(rec.LastMigrationResult),
		Processed: true,
	}
}

// snapshot hands the status listener a copy it can serve without racing the
// run loop.
func (s *Service) snapshot() []status.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]status.Snapshot, len(s.progress))
	copy(out, s.progress)
	return out
}
