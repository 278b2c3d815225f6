package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/mindbridge-backend/internal/app"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := app.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := app.OpenStore(log)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info("Schema up to date", "driver", store.Driver())
		return nil
	},
}
