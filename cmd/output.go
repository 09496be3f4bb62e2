package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/internal/app"
)

// writeEncodeResult prints the encode summary. Text output is suppressed in
// quiet mode; structured formats are always written.
func writeEncodeResult(cmd *cobra.Command, a *app.App, result *app.EncodeResult) error {
	format := a.Config().OutputFormat
	if format == configs.OutputTable {
		format = configs.OutputText
	}
	if quiet && format == configs.OutputText {
		return nil
	}
	return app.WriteEncodeResult(cmd.OutOrStdout(), result, format)
}
