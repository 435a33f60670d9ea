package main

import (
	"fmt"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	source, err := findSource(deps, c.Name)
	if err != nil {
		return err
	}

	result, err := deps.Coordinator.IngestSource(deps.Ctx, source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	for _, a := range result.Attempts {
		line := fmt.Sprintf("  %s: %s", a.Strategy, a.Outcome)
		if a.Detail != "" {
			line += " (" + a.Detail + ")"
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	switch {
	case result.Outcome == pagesift.OutcomeFailed:
		fmt.Fprintf(deps.Stderr, "error: no content extracted from %q\n", source.Name)
		return pagesift.Errorf(pagesift.EEMPTY, "no content extracted from %q", source.Name)
	case len(result.Attempts) == 0:
		fmt.Fprintf(deps.Stdout, "Skipped %q: ingested recently\n", source.Name)
	case len(result.Items) == 0:
		fmt.Fprintf(deps.Stdout, "No new content from %q\n", source.Name)
	default:
		var size int
		for _, item := range result.Items {
			size += len(item.ExtractedText)
		}
		fmt.Fprintf(deps.Stdout, "Saved %d items from %q (%s)\n",
			len(result.Items), source.Name, ingest.FormatBytes(size))
	}

	return nil
}
