//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"fallsand/internal/app"
	"fallsand/internal/core"
	"fallsand/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	var sim core.Sim
	if cfg.ConfigPath != "" {
		sc, err := sand.LoadConfig(cfg.ConfigPath)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.NoCache {
			sc.UseCache = false
		}
		if cfg.SerialBuild {
			sc.Parallel = false
		}
		if cfg.Workers > 0 {
			sc.Workers = cfg.Workers
		}
		sim = sand.NewWithConfig(sc)
	} else {
		factory, ok := core.Sims()[cfg.Sim]
		if !ok {
			log.Fatalf("unknown sim %q", cfg.Sim)
		}
		params := map[string]string{}
		if cfg.NoCache {
			params["use_cache"] = "false"
		}
		if cfg.SerialBuild {
			params["parallel"] = "false"
		}
		if cfg.Workers > 0 {
			params["workers"] = strconv.Itoa(cfg.Workers)
		}
		sim = factory(params)
	}

	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed, cfg.TPS, !cfg.NoCache)
	size := sim.Size()

	ebiten.SetWindowTitle("fallsand — " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
