package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmax-ai/partnermap/pkg/api"
	"github.com/rmax-ai/partnermap/pkg/client"
)

func main() {
	fmt.Println(`{"level":"info","msg":"system_started","component":"partnermap-d"}`)

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf(`{"level":"fatal","msg":"invalid_config","error":"%v"}`+"\n", err)
		os.Exit(1)
	}

	source, err := client.Open(cfg.ClientOptions())
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"failed_to_open_api","error":"%v"}`+"\n", err)
		os.Exit(1)
	}
	fmt.Printf(`{"level":"info","msg":"api_source_ready","mode":"%s"}`+"\n", cfg.Mode)

	srv := api.NewServer(source, cfg.Addr)
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		fmt.Printf(`{"level":"info","msg":"shutdown_initiated","signal":"%s"}`+"\n", sig)
	case err := <-errs:
		if err != nil {
			fmt.Printf(`{"level":"fatal","msg":"server_failed","error":"%v"}`+"\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_stop_server","error":"%v"}`+"\n", err)
	}

	fmt.Println(`{"level":"info","msg":"shutdown_complete"}`)
}
