// Command focuscoach keeps a focus session around a goal and scores pages
// and videos for relevance to it.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/focuscoach/internal/adapters/driven/ai"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/config/file"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/listing"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/page"
	statefile "github.com/custodia-labs/focuscoach/internal/adapters/driven/state/file"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/watch"
	"github.com/custodia-labs/focuscoach/internal/adapters/driving/cli"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/services"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// listingFile is the saved video listing page scanned by 'scan' and 'run'.
const listingFile = "listing.html"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := 0
	if err := run(ctx); err != nil {
		code = 1
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context) error {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Error("get home directory: %v", err)
		return err
	}
	dir := filepath.Join(home, ".focuscoach")
	loadEnv(dir)

	closeStores, err := wire(ctx, dir)
	if err != nil {
		logger.Error("%v", err)
		return err
	}
	defer closeStores()

	return cli.Execute(ctx)
}

// loadEnv reads .env from the working directory and the config directory.
// Variables already set in the environment win.
func loadEnv(dir string) {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("load %s: %v", path, err)
		}
	}
}

// wire builds every adapter and service and hands them to the CLI.
func wire(ctx context.Context, dir string) (func(), error) {
	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(dir); err == nil {
		configStore = store
	} else {
		logger.Warn("config file unavailable, settings will not be saved: %v", err)
		configStore = memory.NewConfigStore()
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		logger.Warn("language model unavailable: %v", err)
		llm = nil
	}
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, err
	}
	evaluator := services.NewEvaluatorService(llm, prompts, settings.Scoring, settings.LLM.Timeout())

	watcher := watch.New(watch.DefaultSettle)
	var sessionStore driven.SessionStore
	if store, err := statefile.NewStateStore(dir, watcher); err == nil {
		sessionStore = store
	} else {
		logger.Warn("state file unavailable, session is not shared: %v", err)
		sessionStore = memory.NewSessionStore(domain.FocusState{})
	}

	closeStores := func() {}
	var (
		evals      driven.EvaluationStore
		sessionLog driven.SessionLog
	)
	if db, err := sqlite.NewStore(filepath.Join(dir, "data")); err == nil {
		evals, sessionLog = db.EvaluationStore(), db.SessionLog()
		closeStores = func() {
			if err := db.Close(); err != nil {
				logger.Warn("close %s: %v", db.Path(), err)
			}
		}
	} else {
		logger.Warn("history database unavailable, keeping history in memory: %v", err)
		evals, sessionLog = memory.NewEvaluationStore(), memory.NewSessionLog()
	}

	session := services.NewSessionController(sessionStore, sessionLog, nil, settings.Session.DefaultMinutes)
	analyzer := services.NewAnalyzerService(evaluator, page.NewSource(page.Config{}), session, evals, nil)

	snapshot := listing.NewSnapshot(filepath.Join(dir, listingFile))
	surface := listing.NewSurface()
	scanner := services.NewRescanCoordinator(evaluator, snapshot, surface, settings.Scan)

	cli.SetServices(&cli.Services{
		Session:  session,
		Analyzer: analyzer,
		Videos:   analyzer,
		Scanner:  scanner,
		History:  services.NewHistoryService(evals, sessionLog),
		Settings: settingsService,
		Follow:   scanner.Follow,
		Listing:  snapshot,
		Overlays: surface,
		Watcher:  watcher,
	})
	return closeStores, nil
}
