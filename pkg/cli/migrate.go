package cli

import (
	"github.com/spf13/cobra"

	"github.com/infra-wireless/clueaccess"
	"github.com/infra-wireless/clueaccess/pkg/migrate"
)

// NewMigrateCmd builds the `migrate` command for standing up a local
// mirror of the Cluetooth schema.
func NewMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := clueaccess.Default()
			if err != nil {
				return err
			}
			mgr, err := migrate.NewManager(eng.SQLDB(), dir)
			if err != nil {
				return err
			}
			switch args[0] {
			case "up":
				return mgr.Up()
			case "down":
				return mgr.Down()
			case "status":
				status, err := mgr.Status()
				if err != nil {
					return err
				}
				cmd.Println(status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "Migrations directory")
	return cmd
}
