// Command steeze-gateway serves the API Gateway dispatcher.
//
//	steeze-gateway           run the HTTP service
//	steeze-gateway -seed     copy manifest_path into the configured store and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/serverfx"
	"github.com/joeydtaylor/steeze-gateway/pkg/store"
)

func main() {
	seed := flag.Bool("seed", false, "write manifest_path endpoints into the configured store and exit")
	flag.Parse()

	if *seed {
		if err := runSeed(); err != nil {
			fmt.Fprintln(os.Stderr, "seed failed:", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		serverfx.Module(serverfx.WithService("steeze-gateway")),
	).Run()
}

func runSeed() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	m, err := core.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	clients, release, err := serverfx.OpenClients(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	st, err := store.Open(ctx, cfg, clients)
	if err != nil {
		return err
	}
	defer st.Close()

	if pg, ok := st.(*store.Postgres); ok {
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	w, ok := st.(store.Writer)
	if !ok {
		return fmt.Errorf("store_driver %q is read-only", cfg.StoreDriver)
	}
	if err := store.Seed(ctx, w, m); err != nil {
		return err
	}
	fmt.Printf("seeded %d endpoints into %s\n", len(m.Endpoints), cfg.StoreDriver)
	return nil
}
