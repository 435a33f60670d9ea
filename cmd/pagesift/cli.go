package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/config"
	"github.com/pagesift/pagesift/ingest"
	"github.com/pagesift/pagesift/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Config      *config.Config
	DB          *sqlite.DB
	Sources     pagesift.SourceService
	Items       pagesift.ItemService
	Coordinator *ingest.Coordinator
	Static      pagesift.Fetcher
	Render      pagesift.Fetcher
	Extractor   pagesift.Extractor
	Metrics     *prometheus.Registry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to a YAML config file" type:"path"`
	Engine string `help:"Extraction engine override (cascade or trafilatura)"`

	Add    AddCmd    `cmd:"" help:"Register a content source"`
	List   ListCmd   `cmd:"" help:"List registered sources"`
	Ingest IngestCmd `cmd:"" help:"Ingest a single source now"`
	Run    RunCmd    `cmd:"" help:"Ingest all active sources, once or on an interval"`
	Items  ItemsCmd  `cmd:"" help:"List extracted content items"`
	Probe  ProbeCmd  `cmd:"" help:"Fetch and extract a URL without saving anything"`
	Delete DeleteCmd `cmd:"" help:"Delete a source and its items"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name     string   `arg:"" help:"Source name"`
	URL      string   `arg:"" help:"Source URL, or a file path for document sources"`
	Type     string   `default:"website" enum:"website,document,testimonial,other" help:"Source content type"`
	Inactive bool     `help:"Register without activating"`
	Meta     []string `short:"m" name:"meta" help:"Metadata key=value pair (repeatable)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Name string `arg:"" help:"Source name or ID"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Interval    time.Duration `help:"Sweep repeatedly with this delay between sweeps (e.g. 1h); overrides interval_seconds from the config file"`
	Concurrency int           `short:"c" help:"Concurrent source limit"`
	Metrics     string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

// ItemsCmd is the "items" subcommand.
type ItemsCmd struct {
	Source string `help:"Only items from this source"`
	Method string `help:"Only items extracted by this method (static or rendered)"`
	Limit  int    `default:"20" help:"Maximum number of items to show"`
	Full   bool   `help:"Show full extracted text"`
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Render bool   `help:"Fetch with the rendering strategy instead of plain HTTP"`
	Links  bool   `help:"List same-site links found on the page"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Source name or ID"`
	Force bool   `help:"Confirm deletion"`
}

// findSource resolves a source by name, falling back to an ID lookup.
func findSource(deps *Dependencies, key string) (*pagesift.ContentSource, error) {
	sources, err := deps.Sources.FindSources(deps.Ctx, pagesift.SourceFilter{Name: &key})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return nil, err
	}
	if len(sources) > 0 {
		return sources[0], nil
	}

	source, err := deps.Sources.FindSourceByID(deps.Ctx, key)
	if pagesift.ErrorCode(err) == pagesift.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: source %q not found. Use 'pagesift list' to see registered sources.\n", key)
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "source %q not found", key)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return nil, err
	}
	return source, nil
}
