package main

import (
	"context"
	"fmt"
	"log"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/config"
	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/logging"
	"github.com/h0rv/prep/internal/render"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	c := coord.New(api.New(cfg.API, logger), logger)
	ctx := context.Background()

	health := c.Health(ctx)
	fmt.Printf("Backend: %s ok=%v (%s)\n\n", cfg.API.BaseURL, health.OK(), health.Class)
	if !health.OK() {
		return
	}

	for _, page := range coord.Pages() {
		states, err := c.Sync(ctx, page.ID)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s (%s):\n", page.Title, page.ID)
		for _, res := range page.Resources {
			st := states[res]
			fmt.Printf("  %-20s %-8s items=%d\n", res, st.Status, c.Store().Len(res))
			for i, it := range c.Store().Get(res) {
				if i == 3 {
					fmt.Println("      ...")
					break
				}
				fmt.Printf("      #%d %s\n", it.ItemID(), render.Sanitize(it.TitleText()))
			}
		}
		fmt.Println()
	}

	// Difficulty breakdown of the problem set
	counts := make(map[string]int)
	for _, it := range c.Store().Get(domain.ResProblems) {
		counts[it.DifficultyText()]++
	}
	fmt.Printf("Problems by difficulty (%d groups):\n", len(counts))
	for d, n := range counts {
		if d == "" {
			d = "(none)"
		}
		fmt.Printf("  %s: %d\n", d, n)
	}
}
