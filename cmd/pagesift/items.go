package main

import (
	"fmt"
	"strings"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/ingest"
)

// previewRunes caps the text shown per item in the summary listing.
const previewRunes = 200

// Run executes the items command.
func (c *ItemsCmd) Run(deps *Dependencies) error {
	filter := pagesift.ItemFilter{Limit: c.Limit}

	if c.Source != "" {
		source, err := findSource(deps, c.Source)
		if err != nil {
			return err
		}
		filter.SourceID = &source.ID
	}

	if c.Method != "" {
		method := pagesift.ExtractionMethod(c.Method)
		if method != pagesift.MethodStatic && method != pagesift.MethodRendered {
			fmt.Fprintf(deps.Stderr, "error: unknown method %q (use static or rendered)\n", c.Method)
			return pagesift.Errorf(pagesift.EINVALID, "unknown method %q", c.Method)
		}
		filter.Method = &method
	}

	items, err := deps.Items.FindItems(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "No items found. Use 'pagesift ingest' to extract content.")
		return nil
	}

	total, err := deps.Items.CountItems(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Showing %d of %d items:\n\n", len(items), total)
	for _, item := range items {
		fmt.Fprintf(deps.Stdout, "%s  %s  [%s]\n", item.ID, item.Title, item.ExtractionMethod)
		fmt.Fprintf(deps.Stdout, "  %s\n", ingest.TruncateURL(item.URL, 76))
		if c.Full {
			fmt.Fprintln(deps.Stdout, item.ExtractedText)
		} else {
			fmt.Fprintf(deps.Stdout, "  %s\n", preview(item.ExtractedText, previewRunes))
		}
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}

// preview returns the first n runes of text flattened onto a single line.
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
