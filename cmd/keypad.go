package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/dtmf-codec/internal/app"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

var keypadCmd = &cobra.Command{
	Use:   "keypad",
	Short: "Show the keypad layout and tone frequencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.WriteKeypad(cmd.OutOrStdout(), dtmf.NewKeypadTable())
	},
}

func init() {
	rootCmd.AddCommand(keypadCmd)
}
