package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gdamore/tcell/v2"

	"github.com/Zachkp/quantum-portfolio/internal/config"
	"github.com/Zachkp/quantum-portfolio/internal/content"
	"github.com/Zachkp/quantum-portfolio/internal/logging"
	"github.com/Zachkp/quantum-portfolio/internal/quantum"
	"github.com/Zachkp/quantum-portfolio/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "qterm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// the screen owns stdout, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if path := os.Getenv("QTERM_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.NewWithWriter(logging.Config{Level: cfg.LogLevel}, out)

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	app := terminal.New(screen, portfolio, cfg.Toggle(), func() *quantum.Game {
		return quantum.New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}, logger)
	defer app.Close()

	app.Run()
	return nil
}
