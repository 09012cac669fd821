package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/tobsdb/pdb/internal/config"
	"github.com/tobsdb/pdb/internal/conn"
	"github.com/tobsdb/pdb/internal/shell"
	"github.com/tobsdb/pdb/internal/storage"
	"github.com/tobsdb/pdb/pkg"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags("pdb")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	pkg.SetLogLevel(cfg.GetLogLevel())
	if cfg.File != "" {
		pkg.DebugLog("using config file", cfg.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return err
	}

	if cfg.Serve {
		user, err := cfg.User()
		if err != nil {
			return err
		}
		if user == nil {
			pkg.InfoLog("no username configured, connections are not authenticated")
		}
		// remote clients confirm through the request body
		engine := conn.NewEngine(provider, conn.AlwaysConfirm)
		return conn.NewServer(engine, user).Listen(ctx, cfg.Listen)
	}

	sh, err := shell.New(provider, cfg.HistoryFile)
	if err != nil {
		return err
	}
	defer sh.Close()
	err = sh.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
