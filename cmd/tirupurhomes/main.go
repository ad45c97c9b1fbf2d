package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "tirupurhomes",
	Short: "Tirupur Homes listing backend",
	Long: `Tirupur Homes serves the public property listing API, the admin
management API and the listing share pages.

Commands:
  serve          - Run the HTTP server (default)
  migrate        - Create or update the database schema
  admin create   - Add a staff account`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to a .env file (default ./.env when present)")
	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
