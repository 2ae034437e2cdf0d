// Command moonfeed-traders resolves the ranked top-trader list for one token
// and prints it. It loads configuration, wires the aggregation service, runs
// a single lookup, and renders the result as JSON or a table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/app"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/config"
	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
	"github.com/olekukonko/tablewriter"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	chainID := flag.String("chain", "solana", "chain identifier")
	token := flag.String("token", "", "token address (required)")
	format := flag.String("format", "table", "output format: table or json")
	flag.Parse()

	// Setup structured JSON logger on stderr so stdout stays parseable.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *token == "" {
		fmt.Fprintln(os.Stderr, "usage: moonfeed-traders -chain solana -token <address> [-format json]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	res, err := application.Service.TopTraders(ctx, *chainID, *token)
	if err != nil {
		logger.Error("lookup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.Error("encode result", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		printTable(res)
	}
}

// printTable renders the ranked list plus the provenance line.
func printTable(res *domain.Result) {
	if !res.Meta.Supported {
		fmt.Printf("chain %q is not supported (supported: %v)\n", res.Meta.ChainID, res.Meta.SupportedChains)
		return
	}

	fmt.Printf("top traders for %s on %s, source %s (price $%.8f)\n",
		res.Meta.TokenAddress, res.Meta.ChainID, res.Meta.Source, res.Meta.PriceUsd)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Wallet", "Profit", "Volume", "Position", "Pos $", "Trades")

	for _, t := range res.Traders {
		table.Append(
			fmt.Sprintf("%d", t.Rank),
			shorten(t.Wallet),
			fmt.Sprintf("$%.2f", t.ProfitUsd),
			fmt.Sprintf("$%.2f", t.VolumeUsd),
			fmt.Sprintf("%.4f", t.PositionTokens),
			fmt.Sprintf("$%.2f", t.PositionValueUsd),
			fmt.Sprintf("%d", t.TradeCount),
		)
	}

	table.Render()
	fmt.Println(res.Meta.Disclaimer)
}

func shorten(wallet string) string {
	if len(wallet) <= 12 {
		return wallet
	}
	return wallet[:6] + ".." + wallet[len(wallet)-4:]
}
