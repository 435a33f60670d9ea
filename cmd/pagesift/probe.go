package main

import (
	"fmt"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/goquery"
	"github.com/pagesift/pagesift/ingest"
)

// Run executes the probe command.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	fetcher := deps.Static
	if c.Render {
		fetcher = deps.Render
	}

	snapshot, err := fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	result, err := deps.Extractor.Extract(snapshot.HTML)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Strategy: %s\n", fetcher.Name())
	switch {
	case !result.Empty():
		title := result.Title
		if title == "" {
			title = snapshot.Title
		}
		fmt.Fprintf(deps.Stdout, "Title:    %s\n", title)
		fmt.Fprintf(deps.Stdout, "Tier:     %s\n", result.Tier)
		fmt.Fprintf(deps.Stdout, "Text:     %s\n", ingest.FormatBytes(len(result.Text)))
		fmt.Fprintf(deps.Stdout, "Hash:     %s\n", ingest.ComputeHash(result.Text))
	case c.Render:
		fmt.Fprintln(deps.Stdout, "No qualifying content; a rendered ingest of this page would come up empty")
	default:
		fmt.Fprintln(deps.Stdout, "No qualifying content; ingestion would escalate to the rendering strategy")
	}

	if c.Links {
		links, err := goquery.ExtractLinks(snapshot.HTML, snapshot.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Links:    %d\n", len(links))
		for _, link := range links {
			fmt.Fprintln(deps.Stdout, "  "+link)
		}
	}

	return nil
}
