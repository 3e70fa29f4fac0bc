package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title OSCA API
// @version 1.0.0
// @description Organization announcements: editor sessions and the announcement form action
// @BasePath /api/v1
// @schemes http https

var rootCmd = &cobra.Command{
	Use:           "osca-api",
	Short:         "OSCA announcements API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(issueTokenCmd())
	rootCmd.RunE = serveCmd().RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
