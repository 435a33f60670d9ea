package main

import (
	"fmt"

	"github.com/pagesift/pagesift"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return pagesift.Errorf(pagesift.EINVALID, "use --force to confirm deletion")
	}

	source, err := findSource(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.Sources.DeleteSource(deps.Ctx, source.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted source %q\n", source.Name)
	return nil
}
