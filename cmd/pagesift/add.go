package main

import (
	"fmt"
	"strings"

	"github.com/pagesift/pagesift"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	metadata, err := parseMeta(c.Meta)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	source := &pagesift.ContentSource{
		Name:        c.Name,
		URL:         c.URL,
		ContentType: pagesift.ContentType(c.Type),
		IsActive:    !c.Inactive,
		Metadata:    metadata,
	}

	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %q (%s)\n", c.Name, source.ID)
	return nil
}

// parseMeta splits repeatable key=value flags into a metadata map.
func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, pagesift.Errorf(pagesift.EINVALID, "invalid metadata pair %q (want key=value)", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}
