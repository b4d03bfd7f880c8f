package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rmax-ai/partnermap/pkg/config"
	"github.com/rmax-ai/partnermap/pkg/state"
	"github.com/rmax-ai/partnermap/pkg/tui"
)

type Config struct {
	config.Common
	Start tui.Route
	Mode  state.Mode
}

func LoadConfig(args []string) (Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return Config{}, err
	}
	common, err := config.CommonFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Common: common}

	flagSet := flag.NewFlagSet("partnermap-tui", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagPage := flagSet.String("page", config.EnvOrDefault("PARTNERMAP_START_PAGE", "home"), "first page: home|map|dashboard|network|partners|admin")
	flagOps := flagSet.String("ops", config.EnvOrDefault("PARTNERMAP_OPS_MODE", string(state.ModeSteady)), "operating mode: steady|disaster")
	cfg.Common.Flags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	route, ok := tui.ParseRoute(*flagPage)
	if !ok {
		return Config{}, fmt.Errorf("unknown page: %s", *flagPage)
	}
	cfg.Start = route
	cfg.Mode = state.Mode(*flagOps)
	if !cfg.Mode.Valid() {
		return Config{}, fmt.Errorf("unsupported ops mode: %s", *flagOps)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
