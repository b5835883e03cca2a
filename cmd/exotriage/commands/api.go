package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/skyfield/exotriage/internal/api"
	"github.com/skyfield/exotriage/internal/api/handlers"
	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/internal/profile"
	"github.com/skyfield/exotriage/internal/realtime"
	"github.com/skyfield/exotriage/internal/scheduler"
	"github.com/skyfield/exotriage/internal/scheduler/jobs"
	"github.com/skyfield/exotriage/internal/session"
	"github.com/skyfield/exotriage/pkg/config"
	"github.com/skyfield/exotriage/pkg/logger"
)

// apiCmd represents the api command.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the dashboard API server",
	Long: `Start the REST/websocket backend for the exploration dashboard.

Endpoints:
  GET  /health                  - Health check
  GET  /ws                      - Run-committed event stream
  GET  /api/status              - Status-bar summary
  GET  /api/views/{view}        - Derived view (all|stage1_passed|stage2_evaluated|shortlist)
  GET  /api/candidates/{name}   - Drawer detail payload
  GET  /api/thresholds          - Current thresholds
  PUT  /api/thresholds/{key}    - Threshold write (esi|signal|habitability)
  POST /api/atmosphere/score    - Live composition scoring

Example:
  go run ./cmd/exotriage api
  go run ./cmd/exotriage api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	applyGlobalFlags(cfg)

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Load catalog (fatal if unreadable: nothing to serve without it)
	cat, err := catalog.NewLoader(log).Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// 4. Load profile and build the orchestrator. A broken profile means
	// the evaluation environment cannot initialize; serve the catalog in
	// degraded mode instead of crashing.
	orch, prof := buildOrchestrator(cfg, cat, log)

	// 5. Session store + debounced re-runs
	store := session.New(orch, prof.Thresholds, time.Duration(prof.Pipeline.DebounceMS)*time.Millisecond, log)
	defer store.Close()

	// 6. Realtime hub, fed by run commits
	hub := realtime.NewHub(log)
	store.OnCommit(hub.BroadcastRun)

	// 7. Initial pipeline run
	if _, err := store.RunNow(cmd.Context()); err != nil {
		return fmt.Errorf("initial pipeline run: %w", err)
	}

	// 8. Reproducibility audit schedule
	sched := scheduler.New(log)
	if prof.Pipeline.AuditSchedule != "" {
		audit := jobs.NewReproducibilityAudit(store, prof.Pipeline.AuditSchedule, log)
		if err := sched.AddJob(audit); err != nil {
			return fmt.Errorf("schedule audit: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 9. Router and server
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	triage := handlers.NewTriageHandler(store, log)
	router := api.NewRouter(triage, hub, limiter, log)
	server := api.New(cfg, log, router)

	// 10. Start with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// applyGlobalFlags lets --profile/--catalog override the env config.
func applyGlobalFlags(cfg *config.Config) {
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}

// buildOrchestrator loads the evaluation profile and constructs the pipeline
// orchestrator, falling back to degraded mode on profile failure.
func buildOrchestrator(cfg *config.Config, cat *catalog.Catalog, log *logger.Logger) (*pipeline.Orchestrator, *profile.Profile) {
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		log.WithError(err).Error("Evaluation profile unusable, entering degraded mode")
		fallback := profile.Default()
		return pipeline.NewUnavailable(cat, err.Error(), log), fallback
	}

	orch, err := pipeline.NewOrchestrator(cat, prof, log)
	if err != nil {
		log.WithError(err).Error("Orchestrator init failed, entering degraded mode")
		return pipeline.NewUnavailable(cat, err.Error(), log), prof
	}

	return orch, prof
}
