package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/calc/pkg"
)

// Version prints the program banner and version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	stdout, _ := stdio(ctx)

	_, err := fmt.Fprintf(stdout, "%s\nversion %s\n", pkg.Banner(), pkg.Version)

	return err
}
