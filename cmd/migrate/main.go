package main

import (
	"log"
	"os"

	"arbodash/internal/container"
	"arbodash/internal/migration"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate [database_url]",
		Short: "Apply the dashboard session schema (DATABASE_URL when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL := os.Getenv("DATABASE_URL")
			if len(args) == 1 {
				databaseURL = args[0]
			}
			if databaseURL == "" {
				return cmd.Usage()
			}

			db, err := container.Connect(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if reset {
				log.Println("Dropping dashboard tables")
				if err := runner.Drop(cmd.Context(), db); err != nil {
					return err
				}
			}
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			log.Printf("Schema at version %s", runner.Version())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the session table before migrating")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
