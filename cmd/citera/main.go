package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rattsdata/citera/pkg/citation"
	"github.com/rattsdata/citera/pkg/fetch"
	"github.com/rattsdata/citera/pkg/pdftext"
	"github.com/rattsdata/citera/pkg/process"
	"github.com/rattsdata/citera/pkg/resolve"
	"github.com/rattsdata/citera/pkg/wikibase"
)

var version = "0.1.0"

const (
	envUser     = "CITERA_USER"
	envPassword = "CITERA_PASSWORD"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "citera",
		Short: "Citation extraction bot for Supreme Court decisions",
		Long: `Citera discovers Supreme Court decisions in a Wikibase knowledge base,
extracts the legal citations from their full-text documents, and appends
"cites" statements with page qualifiers and provenance references.

Recognized citation families:
  - Case reports (NJA)
  - Government bills (prop.)
  - Official report series (SOU)
  - Committee reports (bet.)
  - Parliamentary motions (mot.)`,
		Version: version,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(resolveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		apiEndpoint    string
		sparqlEndpoint string
		limit          int
		dryRun         bool
		cacheSize      int
		userAgent      string
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the batch job over discovered decisions",
		Long: `Discover Supreme Court decisions via SPARQL, fetch their documents,
extract and resolve citations, and write the resulting statements.

Credentials are read from the ` + envUser + ` and ` + envPassword + `
environment variables (a .env file in the working directory is loaded
if present). --dry-run needs no credentials and writes nothing.

Example:
  citera run --limit 50 --dry-run
  citera run --cache-size 65536`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Missing .env is fine; the variables may already be exported.
			_ = godotenv.Load()

			logger, err := buildLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sparqlConfig := wikibase.DefaultSPARQLConfig()
			if sparqlEndpoint != "" {
				sparqlConfig.Endpoint = sparqlEndpoint
			}
			if userAgent != "" {
				sparqlConfig.UserAgent = userAgent
			}
			sparqlClient := wikibase.NewSPARQLClient(sparqlConfig)

			resolver, err := resolve.NewResolver(wikibase.NewCitationLookup(sparqlClient), cacheSize)
			if err != nil {
				return err
			}

			fetchConfig := fetch.DefaultConfig()
			if userAgent != "" {
				fetchConfig.UserAgent = userAgent
			}

			var writer process.LinkWriter
			if !dryRun {
				username := os.Getenv(envUser)
				password := os.Getenv(envPassword)
				if username == "" || password == "" {
					return fmt.Errorf("%s and %s must be set (or use --dry-run)", envUser, envPassword)
				}

				clientConfig := wikibase.DefaultClientConfig()
				if apiEndpoint != "" {
					clientConfig.APIEndpoint = apiEndpoint
				}
				if userAgent != "" {
					clientConfig.UserAgent = userAgent
				}
				writeClient, err := wikibase.NewClient(clientConfig)
				if err != nil {
					return err
				}
				if err := writeClient.Login(cmd.Context(), username, password); err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				writer = writeClient
			}

			processor, err := process.NewProcessor(process.Config{
				Fetcher:   fetch.NewClient(fetchConfig),
				Extractor: pdftext.NewExtractor(),
				Resolver:  resolver,
				Writer:    writer,
				Logger:    logger,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}

			discovery := wikibase.NewDiscovery(sparqlClient, logger)
			decisions, err := discovery.Decisions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			logger.Info("discovered decisions", zap.Int("count", len(decisions)))

			report, runErr := processor.Run(cmd.Context(), decisions)

			fmt.Print(report.String())
			stats := resolver.Stats()
			fmt.Printf("  Cache hits / misses:   %d / %d\n", stats.Hits, stats.Misses)

			return runErr
		},
	}

	cmd.Flags().StringVar(&apiEndpoint, "endpoint", "", "MediaWiki API endpoint (default "+wikibase.DefaultAPIEndpoint+")")
	cmd.Flags().StringVar(&sparqlEndpoint, "sparql", "", "SPARQL query endpoint (default "+wikibase.DefaultSPARQLEndpoint+")")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of decisions to process (0 = no limit)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Extract and resolve but do not write")
	cmd.Flags().IntVar(&cacheSize, "cache-size", resolve.DefaultCacheSize, "Resolution cache capacity")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "Override the User-Agent header on all clients")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	return cmd
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract citations from a local document",
		Long: `Run the citation matcher and aggregator over a local PDF or text file
and print the aggregated citation table. Useful for checking what a
run would extract before pointing it at the knowledge base.

Example:
  citera extract decision.pdf
  citera extract decision.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentPath := args[0]
			documentBytes, err := os.ReadFile(documentPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", documentPath, err)
			}

			documentText := string(documentBytes)
			if strings.EqualFold(filepath.Ext(documentPath), ".pdf") {
				documentText, err = pdftext.NewExtractor().ExtractText(documentBytes)
				if err != nil {
					return fmt.Errorf("failed to extract text from %s: %w", documentPath, err)
				}
			}

			groups := citation.Aggregate(citation.Extract(documentText))
			if len(groups) == 0 {
				fmt.Println("No citations found.")
				return nil
			}

			keys := make([]string, 0, len(groups))
			for key := range groups {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Printf("Found %d citation(s):\n", len(keys))
			for _, key := range keys {
				pages := groups[key].Sorted()
				if len(pages) == 0 {
					fmt.Printf("  %s\n", key)
					continue
				}
				fmt.Printf("  %s (pages %s)\n", key, strings.Join(pages, ", "))
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var (
		sparqlEndpoint string
		userAgent      string
	)

	cmd := &cobra.Command{
		Use:   "resolve [citation]",
		Short: "Look up the item(s) for a citation key",
		Long: `Query the knowledge base for items whose legal-citation attribute
matches the given key exactly.

Example:
  citera resolve "NJA 2019 s. 45"
  citera resolve "Prop. 2005/06:55"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			citationKey := citation.NormalizeWhitespace(args[0])

			sparqlConfig := wikibase.DefaultSPARQLConfig()
			if sparqlEndpoint != "" {
				sparqlConfig.Endpoint = sparqlEndpoint
			}
			if userAgent != "" {
				sparqlConfig.UserAgent = userAgent
			}
			lookup := wikibase.NewCitationLookup(wikibase.NewSPARQLClient(sparqlConfig))

			targets, err := lookup.FindByLegalCitation(cmd.Context(), citationKey)
			if err != nil {
				return err
			}

			switch len(targets) {
			case 0:
				fmt.Printf("No item found for %q.\n", citationKey)
			case 1:
				fmt.Printf("%s\n", targets[0])
			default:
				fmt.Printf("Ambiguous: %d items match %q:\n", len(targets), citationKey)
				for _, target := range targets {
					fmt.Printf("  %s\n", target)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sparqlEndpoint, "sparql", "", "SPARQL query endpoint (default "+wikibase.DefaultSPARQLEndpoint+")")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "Override the User-Agent header")

	return cmd
}

// buildLogger returns a console logger at info level, or debug with verbose.
func buildLogger(verbose bool) (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Encoding = "console"
	if verbose {
		loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
