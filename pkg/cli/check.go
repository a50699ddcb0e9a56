package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/infra-wireless/clueaccess"
)

// NewCheckCmd builds the `check` command, the same connectivity probe the
// bare root command runs.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Attempt a database connection and report the result",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, err := clueaccess.RunInSession(cmd.Context(), func(s *gorm.DB) (int, error) {
		var one int
		return one, s.Raw("SELECT 1").Scan(&one).Error
	})
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	cmd.Println("Successfully connected to the database")
	return nil
}
