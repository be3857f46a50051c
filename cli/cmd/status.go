/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ponyo877/roomchat/cli/app"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the signed-in user, the current room and the connection state.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printStatus(os.Stdout, controller.Status())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, st app.Status) {
	fmt.Fprintf(w, "server:     %s\n", viper.GetString(serverKey))
	if st.SignedIn {
		fmt.Fprintf(w, "user:       %s (id %d)\n", st.Identity.Username, st.Identity.UserID)
	} else {
		fmt.Fprintln(w, "user:       (signed out)")
	}
	if st.RoomName != "" {
		fmt.Fprintf(w, "room:       %s (#%d)\n", st.RoomName, st.RoomID)
	} else {
		fmt.Fprintln(w, "room:       -")
	}
	fmt.Fprintf(w, "connection: %s\n", st.State)
}
