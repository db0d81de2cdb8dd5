package cmd

import (
	"context"
	"fmt"
	"log"

	"distr/config"
	"distr/core/auth"
	"distr/db"
	"distr/model"
	"distr/repository"

	"github.com/spf13/cobra"
)

var (
	seedAdminLogin    string
	seedAdminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema",
	Long:  `Applies the GORM schema migration and optionally seeds an initial admin account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrateModels(model.AllModels()...); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		fmt.Println("Schema migrated.")

		if seedAdminLogin == "" {
			return
		}
		if seedAdminPassword == "" {
			log.Fatal("--admin-password is required when --admin-login is set")
		}

		ctx := context.Background()
		users := repository.NewGormUserRepository(db.GormDB)

		taken, err := users.ExistsByLogin(ctx, seedAdminLogin)
		if err != nil {
			log.Fatalf("Failed to check admin login: %v", err)
		}
		if taken {
			fmt.Printf("Admin account %q already exists, skipping seed.\n", seedAdminLogin)
			return
		}

		hash, err := auth.HashPassword(seedAdminPassword)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin := &model.User{
			Login:        seedAdminLogin,
			PasswordHash: hash,
			Type:         model.UserTypeAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		fmt.Printf("Admin account %q created with id %d.\n", admin.Login, admin.ID)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&seedAdminLogin, "admin-login", "", "seed an admin account with this login")
	migrateCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for the seeded admin account")
}
