// Package main provides the nao CLI, a static indexer for dbt projects.
package main

import (
	"os"

	"github.com/ealexisaraujo/nao/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
