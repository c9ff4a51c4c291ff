package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/patterns"
	"github.com/aps-tools/invoice-extract/internal/token"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError(`Usage: patterns <command> [flags]

Commands:
  list    print all learned patterns in the store
  add     add or replace a learned pattern
  rm      remove a learned pattern by signature
  check   validate a pattern against a sample line without storing it
`)
	os.Exit(1)
}

func main() {
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

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		storePath, useSQLite := storeFlags(fs)
		fs.Parse(os.Args[2:])
		store := openStore(*storePath, *useSQLite, logger)
		defer store.Close()
		entries, err := store.All()
		if err != nil {
			printError("Error: list patterns: %v\n", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\t%s\n", e.Signature, e.Name, e.Category, e.Pattern)
		}

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		storePath, useSQLite := storeFlags(fs)
		var (
			signature = fs.String("signature", "", "shape signature key (required)")
			pattern   = fs.String("pattern", "", "regular expression with capture groups (required)")
			fields    = fs.String("fields", "", `field map JSON, e.g. {"date":[1],"total":[5]} (required)`)
			name      = fs.String("name", "", "grammar name (optional)")
			category  = fs.String("category", "", "charge category, one of: "+strings.Join(constants.AsStringSlice(), ", "))
			sample    = fs.String("sample", "", "sample line the pattern must match (required)")
		)
		fs.Parse(os.Args[2:])
		if *signature == "" || *pattern == "" || *fields == "" || *sample == "" {
			printError("Error: add requires --signature, --pattern, --fields and --sample\n")
			os.Exit(1)
		}
		entry := patterns.Entry{
			Signature: token.ShapeSignature(*signature),
			Name:      *name,
			Pattern:   *pattern,
			Category:  *category,
		}
		if err := json.Unmarshal([]byte(*fields), &entry.Fields); err != nil {
			printError("Error: parse --fields: %v\n", err)
			os.Exit(1)
		}
		if err := patterns.ValidateEntry(entry, *sample); err != nil {
			printError("Error: validate pattern: %v\n", err)
			os.Exit(1)
		}
		store := openStore(*storePath, *useSQLite, logger)
		defer store.Close()
		if err := store.Put(entry); err != nil {
			printError("Error: store pattern: %v\n", err)
			os.Exit(1)
		}
		logger.Info("patterns.added", "signature", *signature)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		storePath, useSQLite := storeFlags(fs)
		signature := fs.String("signature", "", "shape signature key (required)")
		fs.Parse(os.Args[2:])
		if *signature == "" {
			printError("Error: rm requires --signature\n")
			os.Exit(1)
		}
		store := openStore(*storePath, *useSQLite, logger)
		defer store.Close()
		if err := store.Delete(token.ShapeSignature(*signature)); err != nil {
			printError("Error: remove pattern: %v\n", err)
			os.Exit(1)
		}
		logger.Info("patterns.removed", "signature", *signature)

	case "check":
		fs := flag.NewFlagSet("check", flag.ExitOnError)
		var (
			pattern = fs.String("pattern", "", "regular expression with capture groups (required)")
			fields  = fs.String("fields", "", "field map JSON (required)")
			sample  = fs.String("sample", "", "sample line the pattern must match (required)")
		)
		fs.Parse(os.Args[2:])
		if *pattern == "" || *fields == "" || *sample == "" {
			printError("Error: check requires --pattern, --fields and --sample\n")
			os.Exit(1)
		}
		entry := patterns.Entry{Signature: "check", Pattern: *pattern}
		if err := json.Unmarshal([]byte(*fields), &entry.Fields); err != nil {
			printError("Error: parse --fields: %v\n", err)
			os.Exit(1)
		}
		if err := patterns.ValidateEntry(entry, *sample); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

func storeFlags(fs *flag.FlagSet) (*string, *bool) {
	storePath := fs.String("store", "learned_patterns.json", "pattern store path")
	useSQLite := fs.Bool("sqlite", false, "use a SQLite pattern store")
	return storePath, useSQLite
}

func openStore(path string, useSQLite bool, logger *slog.Logger) patterns.Store {
	if useSQLite {
		store, err := patterns.OpenSQLiteStore(path, logger)
		if err != nil {
			printError("Error: open pattern store: %v\n", err)
			os.Exit(1)
		}
		return store
	}
	return patterns.OpenFileStore(path, logger)
}
