package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/services"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
	adminPhone    string
	adminRole     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage staff accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a staff account",
	Long: `Create an ADMIN or AGENT account that can sign in to the admin API.

Examples:
  tirupurhomes admin create --email owner@example.com --name Owner --password 'S3cret!pass'
  tirupurhomes admin create --email agent@example.com --name Agent --password 'S3cret!pass' --role agent`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := domain.ParseRole(adminRole)
		if err != nil {
			return err
		}
		cfg, db, closer, err := bootstrap()
		if err != nil {
			return err
		}
		defer closer.Close()
		defer db.Close()

		auth := services.NewAuthService(repos.NewUserRepo(db), cfg.JWTSecret, cfg.TokenTTL)
		u, err := auth.Register(cmd.Context(), domain.NewUser{
			Email:    adminEmail,
			Name:     adminName,
			Phone:    adminPhone,
			Password: adminPassword,
			Role:     role,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Account email (required)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name (required)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password (required)")
	adminCreateCmd.Flags().StringVar(&adminPhone, "phone", "", "Phone number")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", "admin", "admin or agent")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("name")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
}
