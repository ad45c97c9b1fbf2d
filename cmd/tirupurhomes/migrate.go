package main

import (
	"github.com/spf13/cobra"

	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/repos"
)

var seedDemo bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create the tables and indexes if they are missing, then seed the
bootstrap admin from ADMIN_EMAIL / ADMIN_PASSWORD when set.

Examples:
  tirupurhomes migrate              # schema + admin
  tirupurhomes migrate --demo       # also insert the demo listings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, closer, err := bootstrap()
		if err != nil {
			return err
		}
		defer closer.Close()
		defer db.Close()

		if err := repos.Seed(db, repos.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminName:     cfg.AdminName,
			AdminPassword: cfg.AdminPassword,
			Demo:          seedDemo || cfg.SeedDemo,
		}); err != nil {
			return err
		}
		applog.Info(nil, "migrate.done", map[string]any{"driver": cfg.DBDriver})
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seedDemo, "demo", false, "Insert the demo listings")
}
