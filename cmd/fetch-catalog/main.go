package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/catalog"
	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/upstream"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/fetch-catalog/main.go <category-slug> [offset] [limit]")
		fmt.Println("Example: go run cmd/fetch-catalog/main.go churna 0 20")
		os.Exit(1)
	}

	slug := os.Args[1]
	offset := argInt(2, 0)
	limit := argInt(3, 20)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := upstream.NewClient(cfg.Upstream, logger)
	svc := catalog.NewService(client, logger)

	scope := catalog.Scope{Category: slug}
	set, err := svc.ProductPage(context.Background(), scope, offset, limit, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch page: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Category %q: %d item(s), total=%d hasMore=%v nextOffset=%d\n\n",
		slug, len(set.Items), set.TotalCount, set.HasMore, set.NextOffset)

	for _, p := range set.Items {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		fmt.Printf("  %-12s %-40s ₹%8.2f  %s", p.ID, truncate(p.Name, 40), p.Price, stock)
		if len(p.Variants) > 0 {
			fmt.Printf("  (%d variants)", len(p.Variants))
		}
		fmt.Println()
	}
}

func argInt(i, fallback int) int {
	if len(os.Args) <= i {
		return fallback
	}
	if v := int(catalog.ParseLooseFloat(os.Args[i])); v > 0 {
		return v
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
