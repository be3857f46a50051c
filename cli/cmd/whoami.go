/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the signed-in user.",
	Long: `Prints the signed-in user. With --remote the user record, including
presence, is fetched from the server.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		id, ok := controller.Identity()
		if !ok {
			fmt.Fprintln(os.Stderr, "Not signed in.")
			return
		}
		remote, _ := cmd.Flags().GetBool("remote")
		if !remote {
			fmt.Printf("%s (id %d)\n", id.Username, id.UserID)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		u, err := controller.Profile(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting user: %v\n", err)
			return
		}
		fmt.Printf("%s (id %d) %s, last seen %s\n", u.Username, u.ID, u.Status, u.LastSeen)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolP("remote", "r", false, "Fetch the user record from the server")
}
