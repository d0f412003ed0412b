package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/config"
	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/JordanJFranklin/Galesong-sub001/internal/game"
	"github.com/JordanJFranklin/Galesong-sub001/internal/report"
	"github.com/JordanJFranklin/Galesong-sub001/internal/telemetry"
	"github.com/JordanJFranklin/Galesong-sub001/internal/watch"
)

func main() {
	var (
		configPath = flag.String("config", "galesong.yml", "session config file")
		frames     = flag.Int("frames", 120, "frames to simulate")
		dt         = flag.Duration("dt", time.Second/60, "time per simulated frame")
		use        = flag.String("use", "", "comma-separated abilities to use on the first frame")
		htmlOut    = flag.String("html", "", "write an HTML status page to this path")
		pdfOut     = flag.String("pdf", "", "write a PDF deck sheet to this path")
		live       = flag.Bool("watch", false, "run in real time and reload the card catalog on change")
		verbose    = flag.Bool("v", false, "log every game event")
	)
	flag.Parse()

	logger := log.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Balance = config.FromEnv(cfg.Balance)

	bus := event.NewBus()
	events := telemetry.NewMemoryRepository()
	bus.Subscribe(telemetry.Recorder(events, func(err error) { logger.Printf("telemetry: %v", err) }))
	if *verbose {
		bus.Subscribe(event.DiagnosticListener(logger))
	}

	engine, err := game.NewEngine(game.Options{
		Config: cfg,
		Logger: logger,
		Bus:    bus,
	})
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	for _, name := range splitList(*use) {
		if !engine.UseAbility(name) {
			logger.Printf("ability %s is cooling down", name)
		}
	}

	if *live {
		if err := runLive(engine, *configPath, *dt, logger); err != nil {
			log.Fatalf("run: %v", err)
		}
	} else {
		for i := 0; i < *frames; i++ {
			engine.Frame(*dt)
		}
	}

	snap := engine.Snapshot()
	if *htmlOut != "" {
		if err := writeHTML(*htmlOut, snap); err != nil {
			log.Fatalf("write html: %v", err)
		}
	}
	if *pdfOut != "" {
		b, err := report.DeckSheet(snap)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfOut, b, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}

	if err := printSummary(os.Stdout, snap, events); err != nil {
		log.Fatalf("summary: %v", err)
	}
}

func printSummary(w io.Writer, snap game.Snapshot, events telemetry.Repository) error {
	recorded, err := events.GetEvents(time.Time{}, nil)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	stats, err := telemetry.CalculateStats(recorded, snap.At)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}
	fmt.Fprintf(w, "deck %d/%d points, %d coins, %d events\n", snap.Used, snap.Total, snap.Coins, len(recorded))
	for _, c := range snap.Cooldowns {
		fmt.Fprintf(w, "  %-12s ready=%-5t remaining=%s\n", c.Name, c.Ready, c.Remaining)
	}
	if stats.Overdrafts > 0 {
		fmt.Fprintf(w, "  budget overdrawn %d times\n", stats.Overdrafts)
	}
	return nil
}

func runLive(engine *game.Engine, configPath string, interval time.Duration, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := watch.NewWatcher(filepath.Dir(configPath))
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		for {
			select {
			case path, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(path) != filepath.Clean(configPath) {
					continue
				}
				if err := engine.ReloadCatalog(path); err == nil {
					logger.Printf("reloaded card catalog from %s", path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Printf("watch: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Printf("running; press Ctrl-C to stop")
	if err := engine.Run(ctx, interval); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func writeHTML(path string, snap game.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.StatusPage(snap).Render(context.Background(), f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
