package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/rmax-ai/partnermap/pkg/api"
	"github.com/rmax-ai/partnermap/pkg/config"
)

type Config struct {
	config.Common
	Addr string
}

func LoadConfig(args []string) (Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return Config{}, err
	}
	common, err := config.CommonFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Common: common, Addr: config.AddrFromEnv(api.DefaultAddr)}

	flagSet := flag.NewFlagSet("partnermap-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	cfg.Common.Flags(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
