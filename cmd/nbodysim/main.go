// Command nbodysim loads a JSON configuration and a CSV body snapshot,
// runs the gravitational simulation either windowed or headless, and
// writes the final body snapshot on exit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PhivPap/n-body-2d/bodyio"
	"github.com/PhivPap/n-body-2d/config"
	"github.com/PhivPap/n-body-2d/coordinator"
	"github.com/PhivPap/n-body-2d/engine"
)

var verbosity = flag.String("verbosity", "DEBUG", "log level: DEBUG|INFO|WARNING|ERROR")

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: nbodysim [--verbosity LEVEL] <config-path>")
		return 1
	}

	level, err := parseVerbosity(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.IO.EchoConfig {
		if echoed, err := cfg.Echo(); err == nil {
			fmt.Println(echoed)
		}
	}

	store, err := bodyio.Load(cfg.IO.UniverseInfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.IO.EchoBodies {
		slog.Info("loaded bodies", "count", store.Len())
	}

	eng, err := engine.New(store, &cfg.Simulation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	coord := coordinator.New(cfg, eng)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		<-sigCh
		slog.Warn("received SIGINT, stopping")
		coord.RequestStop()
	}()

	if cfg.Graphics.Enabled {
		coord.RunGraphical(store)
	} else {
		coord.RunHeadless()
	}
	eng.Close()

	if cfg.IO.UniverseOutfile != "" {
		if err := bodyio.Save(cfg.IO.UniverseOutfile, store); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	return 0
}

func parseVerbosity(v string) (slog.Level, error) {
	switch v {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("nbodysim: unknown --verbosity %q (want DEBUG|INFO|WARNING|ERROR)", v)
	}
}
