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

// joinedCmd represents the joined command
var joinedCmd = &cobra.Command{
	Use:   "joined",
	Short: "Lists the rooms you are a member of.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		rooms, err := controller.JoinedRooms(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing joined rooms: %v\n", err)
			return
		}
		printRooms(os.Stdout, rooms)
	},
}

func init() {
	rootCmd.AddCommand(joinedCmd)
}
