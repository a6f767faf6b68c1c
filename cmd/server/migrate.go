package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workorder/internal/config"
	"workorder/internal/migrations"
	"workorder/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version]",
	Short: "Run database migrations",
	Long: `Connect to PostgreSQL and apply the embedded schema migrations.

"up" (the default) applies everything pending, "down" rolls back one step
and "version" prints the current schema version.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      runMigrate,
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg := config.Load(viper.GetViper())
	db, err := server.Open(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	switch direction {
	case "up":
		err = migrations.Up(sqlDB)
	case "down":
		err = migrations.Down(sqlDB)
	case "version":
		v, dirty, verr := migrations.Version(sqlDB)
		if verr != nil {
			return verr
		}
		fmt.Printf("schema version %d (dirty: %t)\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
	if err != nil {
		return err
	}
	fmt.Println("migrations complete")
	return nil
}
