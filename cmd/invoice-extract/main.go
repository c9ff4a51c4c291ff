package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/aps-tools/invoice-extract/internal/catalog"
	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/export"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/patterns"
	"github.com/aps-tools/invoice-extract/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		in           = flag.String("in", "", "extracted invoice text file, pages separated by form feeds (required)")
		out          = flag.String("out", "", "output XLSX file path (optional, defaults to <in>.xlsx)")
		vendor       = flag.String("vendor", "", "built-in vendor name or path to a vendor config JSON (defaults to $VENDOR_CONFIG, then wastedge)")
		patternsPath = flag.String("patterns", "", "learned pattern store path (optional)")
		useSQLite    = flag.Bool("sqlite", false, "use a SQLite learned pattern store")
		catalogPath  = flag.String("catalog", "", "master site names CSV for fuzzy correction (optional)")
		taxRate      = flag.Float64("tax-rate", 0, "tax rate override, e.g. 0.10")
		tolerance    = flag.Float64("tolerance", 0, "reconciliation tolerance override")
		lineRounding = flag.Bool("line-rounding", false, "round quantity x unit price per line before summation")
		maxCont      = flag.Int("max-continuation", 0, "continuation lookahead bound override")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = strings.TrimSuffix(*in, ".txt") + ".xlsx"
	}

	// Structured logger with message and variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *taxRate > 0 {
		cfg.Reconcile.TaxRate = *taxRate
	}
	if *tolerance > 0 {
		cfg.Reconcile.Tolerance = *tolerance
	}
	if *lineRounding {
		cfg.Reconcile.LineRounding = true
	}
	if *maxCont > 0 {
		cfg.Parse.MaxContinuation = *maxCont
	}
	if *patternsPath != "" {
		cfg.Patterns.Path = *patternsPath
	}
	if *useSQLite {
		cfg.Patterns.UseSQLite = true
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	vendorCfg, err := resolveVendor(*vendor, cfg.Parse.VendorConfigPath)
	if err != nil {
		printError("Error: load vendor config: %v\n", err)
		os.Exit(1)
	}

	var store patterns.Store
	if *patternsPath != "" || cfg.Patterns.UseSQLite {
		var err error
		store, err = openStore(cfg, logger)
		if err != nil {
			printError("Error: open pattern store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	var matcher catalog.Matcher
	if cfg.Catalog.Path != "" {
		names, err := catalog.LoadNamesCSV(cfg.Catalog.Path)
		if err != nil {
			printError("Error: load site catalog: %v\n", err)
			os.Exit(1)
		}
		cache := catalog.OpenCorrectionsCache(cfg.Catalog.CorrectionsPath)
		matcher = catalog.NewLevenshteinMatcher(names, cfg.Catalog.MatchThreshold, cache, logger)
	}

	proc, err := pipeline.NewProcessor(cfg, vendorCfg, store, matcher, logger)
	if err != nil {
		printError("Error: build processor: %v\n", err)
		os.Exit(1)
	}

	pages, err := readPages(*in)
	if err != nil {
		printError("Error: read input: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithRequestID(ctx, uuid.New().String())
	if cfg.Parse.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = common.WithTimeout(ctx, cfg.Parse.Timeout)
		defer cancel()
	}

	result, err := proc.Process(ctx, pages)
	if err != nil {
		printError("Error: processing aborted: %v\n", err)
		os.Exit(1)
	}

	xlsx, err := export.NewService(logger).WriteXLSX(result)
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		printError("Error: write output: %v\n", err)
		os.Exit(1)
	}

	logger.Info("extract.done",
		"input", *in,
		"output", *out,
		"vendor", vendorCfg.Vendor,
		"records", len(result.Records),
		"unmatched", len(result.Unmatched),
	)
}

// resolveVendor picks the vendor source in precedence order: the --vendor
// flag, then the VENDOR_CONFIG environment variable, then the wastedge
// builtin. A name that is not a builtin is treated as a config file path.
func resolveVendor(flagValue, configured string) (*grammar.VendorConfig, error) {
	name := flagValue
	if name == "" {
		name = configured
	}
	if name == "" {
		name = "wastedge"
	}
	if builtin, ok := grammar.BuiltinVendor(name); ok {
		return builtin, nil
	}
	return grammar.LoadVendorConfig(name)
}

func openStore(cfg *common.Config, logger *slog.Logger) (patterns.Store, error) {
	if cfg.Patterns.UseSQLite {
		return patterns.OpenSQLiteStore(cfg.Patterns.Path, logger)
	}
	return patterns.OpenFileStore(cfg.Patterns.Path, logger), nil
}

// readPages loads the extracted text, splitting pages on form feeds and
// lines on newlines. Blank pages are kept; the pipeline skips them.
func readPages(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	var pages [][]string
	for _, page := range strings.Split(text, "\f") {
		pages = append(pages, strings.Split(page, "\n"))
	}
	return pages, nil
}
