package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/state"
	"github.com/rmax-ai/partnermap/pkg/tui"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns the terminal, so std logger output goes to a file or nowhere.
	log.SetOutput(io.Discard)
	if path := os.Getenv("PARTNERMAP_TUI_LOG"); path != "" {
		f, err := tea.LogToFile(path, "partnermap-tui")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	api, err := client.Open(cfg.ClientOptions())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	cache, closeCache, err := cfg.OpenCache(ctx)
	cancel()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeCache()

	st := state.New()
	if err := st.SetMode(cfg.Mode); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	app := tui.New(api, cache, st)
	defer app.Close()
	app.Navigate(cfg.Start)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
