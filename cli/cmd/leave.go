/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// leaveCmd represents the leave command
var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leaves the current room.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// local state is idle whatever the close handshake reports
		if err := controller.LeaveRoom(); err != nil {
			log.Warn().Err(err).Str("module", "cmd").Msg("leave")
		}
	},
}

func init() {
	rootCmd.AddCommand(leaveCmd)
}
