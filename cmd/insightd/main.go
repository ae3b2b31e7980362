package main

import (
	"fmt"
	"os"

	"github.com/astro-insight/insight/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "insightd",
		Short: "Astro-Insight daemon and CLI",
		Long:  "Astro-Insight daemon for serving cited answers over the publication corpus and for running corpus ingestion",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
