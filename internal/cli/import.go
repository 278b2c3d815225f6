package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/mindbridge-backend/internal/app"
	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/modules/health"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <user-id> <export.zip>",
	Short: "Import an Apple Health export archive for one user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}

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

		r := repos.New(store.DB(), log)
		uc := health.New(health.UsecasesDeps{DB: store.DB(), Log: log, HealthDays: r.HealthDay})
		res, err := uc.ImportHealthExportFile(cmd.Context(), userID, args[1])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
