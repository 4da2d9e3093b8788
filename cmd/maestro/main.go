package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/app"
	"github.com/ayusman/maestro/internal/capture"
	"github.com/ayusman/maestro/internal/config"
	"github.com/ayusman/maestro/internal/detector"
	"github.com/ayusman/maestro/internal/dispatch"
	"github.com/ayusman/maestro/internal/gesture"
	"github.com/ayusman/maestro/internal/server"
	"github.com/ayusman/maestro/internal/store"
	"github.com/ayusman/maestro/internal/tray"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("maestro exited", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	return logger
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	// A profile applied in an earlier session outlives the process and
	// takes precedence over the YAML file.
	if id, err := st.Settings().Get(store.SettingActiveProfile); err == nil {
		if p, err := st.Profiles().GetByID(id); err == nil {
			tuning = p.Tuning
			log.Info("restored active profile", zap.String("profile", p.Name))
		} else {
			log.Warn("active profile missing, using file tuning",
				zap.String("profile_id", id), zap.Error(err))
		}
	}

	act := actuator.New(cfg.Actuator, log)
	defer act.Close()

	engine, err := gesture.NewEngine(tuning, log)
	if err != nil {
		return fmt.Errorf("build gesture engine: %w", err)
	}

	detCfg := detector.DefaultConfig()
	detCfg.MaxHands = cfg.MaxHands
	det, err := detector.NewMediaPipeDetector(detCfg)
	if err != nil {
		return fmt.Errorf("build detector: %w", err)
	}

	hub := server.NewHub(log)

	a, err := app.New(app.Options{
		Camera:      capture.NewCamera(cfg.CameraIndex),
		Detector:    det,
		Engine:      engine,
		Dispatcher:  dispatch.New(act, tuning.PinchSensitivity, log),
		Broadcaster: hub,
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("assemble pipeline: %w", err)
	}

	srv := server.New(server.Config{
		App:      a,
		Store:    st,
		Actuator: act,
		Hub:      hub,
		Log:      log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error { return a.Run(ctx) })
	g.Go(func() error {
		if err := srv.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Info("maestro started",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("actuator", cfg.Actuator),
		zap.Int("camera", cfg.CameraIndex),
		zap.Bool("headless", cfg.Headless))

	if cfg.Headless {
		err = g.Wait()
	} else {
		// systray must own the main goroutine; everything else already
		// runs under the errgroup.
		tr := tray.New()
		tr.OnToggle(a.SetEnabled)
		tr.OnOpenPanel(func() { openBrowser(panelURL(cfg.HTTPAddr), log) })
		tr.OnQuit(stop)
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		go mirrorStats(ctx, a, tr)

		tr.Run()
		stop()
		err = g.Wait()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("maestro stopped")
	return nil
}

// mirrorStats keeps the tray menu and tooltip in step with pipeline
// activity.
func mirrorStats(ctx context.Context, a *app.App, tr *tray.Tray) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := a.Stats()
			if last := stats.Dispatch.LastCommand; last != nil {
				tr.SetLastCommand(string(last.Kind))
			}
			tr.SetStatusLine(fmt.Sprintf("%d frames, %d commands",
				stats.FramesProcessed, stats.Dispatch.Dispatched))
		}
	}
}

func panelURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string, log *zap.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Warn("open control panel", zap.String("url", url), zap.Error(err))
	}
}
