package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/luizFelippedev/portfolio-backend/internal/database"
)

var commandCmd = &cobra.Command{
	Use:   "command [name]",
	Short: "Run one-time command (migrate, migrate-create)",
	RunE:  runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("available: migrate, migrate-create")
		return nil
	}
	switch args[0] {
	case "migrate":
		return runMigrateUp(cmd, nil)
	case "migrate-create":
		name := ""
		if len(args) > 1 {
			name = args[1]
		} else {
			fmt.Print("Enter migration name: ")
			_, _ = fmt.Scanln(&name)
		}
		if name == "" {
			log.Fatal("migration name required")
		}
		return database.CreateMigration(name)
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}
