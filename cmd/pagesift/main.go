package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/bloom"
	"github.com/pagesift/pagesift/bluemonday"
	"github.com/pagesift/pagesift/config"
	"github.com/pagesift/pagesift/document"
	"github.com/pagesift/pagesift/fs"
	"github.com/pagesift/pagesift/goquery"
	"github.com/pagesift/pagesift/htmltomarkdown"
	pshttp "github.com/pagesift/pagesift/http"
	"github.com/pagesift/pagesift/ingest"
	psprom "github.com/pagesift/pagesift/prometheus"
	"github.com/pagesift/pagesift/readability"
	"github.com/pagesift/pagesift/rod"
	pslog "github.com/pagesift/pagesift/slog"
	"github.com/pagesift/pagesift/sqlite"
	"github.com/pagesift/pagesift/trafilatura"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService pagesift.SourceService
	ItemService   pagesift.ItemService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesift"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagesift --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The resolved command path names the command regardless of where
	// global flags appeared.
	cmd := strings.Fields(kongCtx.Command())[0]

	// An explicit config file wins over built-in defaults, including the
	// database path. The --engine flag overrides both.
	cfg := config.Default()
	if cli.Config != "" {
		cfg, err = config.Load(cli.Config)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", pagesift.ErrorMessage(err))
			return err
		}
		m.DBPath = cfg.DBPath
	}
	if cli.Engine != "" {
		cfg.Engine = cli.Engine
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", pagesift.ErrorMessage(err))
			return err
		}
	}
	deps.Config = cfg

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGESIFT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.SourceService = sqlite.NewSourceService(m.DB)
	m.ItemService = sqlite.NewItemService(m.DB)
	deps.DB = m.DB
	deps.Sources = m.SourceService
	deps.Items = m.ItemService
	deps.Metrics = prometheus.NewRegistry()

	// Wire the fetch and ingestion stack for commands that reach the network
	if cmd == "ingest" || cmd == "run" || cmd == "probe" {
		logger := slog.New(slog.NewTextHandler(stderr, nil))

		static := pslog.NewLoggingFetcher(pshttp.NewFetcher(
			pshttp.WithTimeout(cfg.StaticTimeout()),
			pshttp.WithUserAgent(cfg.UserAgent),
		), logger)
		defer static.Close()

		// The browser launches lazily on the first rendered fetch, so
		// wiring the renderer costs nothing for pages that never escalate.
		manager := rod.NewBrowserManager()
		pool := rod.NewPool(cfg.PoolSize, rod.WithAcquireTimeout(cfg.PoolAcquireTimeout()))
		render := pslog.NewLoggingFetcher(rod.NewFetcher(manager, pool,
			rod.WithFetchTimeout(cfg.RenderTimeout()),
		), logger)
		defer render.Close()

		var extractor pagesift.Extractor
		switch cfg.Engine {
		case config.EngineTrafilatura:
			extractor = trafilatura.NewExtractor()
		default:
			extractor = goquery.NewExtractor(goquery.WithFallback(readability.NewExtractor()))
		}

		orchestrator := &ingest.Orchestrator{
			Fetchers:         []pagesift.Fetcher{static, render},
			Extractor:        extractor,
			Converter:        bluemonday.NewSanitizingConverter(htmltomarkdown.NewConverter()),
			Documents:        document.NewParser(),
			Sources:          m.SourceService,
			Items:            m.ItemService,
			Recorder:         pslog.NewLoggingRecorder(fs.NewRecorder(cfg.DiagnosticsDir), logger),
			RateLimiter:      ingest.NewDomainLimiter(cfg.DomainRate),
			Seen:             bloom.NewSeenCache(seenCacheSize, seenCacheFPRate),
			Cooldown:         cfg.Cooldown(),
			MinRawTextLen:    cfg.MinRawTextLen,
			ForceDiagnostics: cfg.ForceDiagnostics,
		}

		var ingestor pagesift.Ingestor = pslog.NewLoggingIngestor(orchestrator, logger)
		ingestor = psprom.NewMetricsIngestor(ingestor, deps.Metrics)

		deps.Coordinator = &ingest.Coordinator{
			Sources:     m.SourceService,
			Ingestor:    ingestor,
			Concurrency: cfg.Concurrency,
		}
		deps.Static = static
		deps.Render = render
		deps.Extractor = extractor
	}

	return kongCtx.Run(deps)
}

// Bloom filter sizing for the duplicate-content fast path.
const (
	seenCacheSize   = 100_000
	seenCacheFPRate = 0.01
)

func defaultDBPath() string {
	if path := os.Getenv("PAGESIFT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagesift.db"
	}
	dir := filepath.Join(home, ".pagesift")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagesift.db")
}
