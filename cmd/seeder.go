package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/company-api/internal/seed"
	"github.com/frahmantamala/company-api/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long: `Create the demo user and, per variant, two departments with one project each and
an employee assigned to both projects. Running it twice fails on the existing user.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := setup()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		variants, err := seed.ParseVariants(seedVariant)
		if err != nil {
			log.Fatalf("invalid --variant: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer closeDB(db)

		seeder := seed.New(db, cfg.Security.BearerSecret, logger.LoggerWrapper())
		result, err := seeder.Run(context.Background(), seed.Options{
			Password: seedPassword,
			Variants: variants,
		})
		if err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Println("Seeded user:", seed.DemoUsername)
		for _, variant := range variants {
			fmt.Printf("Seeded %s employee id: %d\n", variant, result.EmployeeIDs[variant])
		}
		fmt.Println("Bearer token:", result.Token)
	},
}
