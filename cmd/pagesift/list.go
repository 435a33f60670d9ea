package main

import (
	"fmt"

	"github.com/pagesift/pagesift"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	sources, err := deps.Sources.FindSources(deps.Ctx, pagesift.SourceFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources found. Use 'pagesift add' to create one.")
		return nil
	}

	for _, s := range sources {
		last := "never"
		if s.LastIngestedAt != nil {
			last = s.LastIngestedAt.UTC().Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%s  %s  %s  last: %s", s.ID, s.Name, s.URL, last)
		if !s.IsActive {
			line += "  (inactive)"
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	return nil
}
