/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/directory"
)

// joinCmd represents the join command
var joinCmd = &cobra.Command{
	Use:               "join <room>",
	Short:             "Becomes a member of a room.",
	Long:              `Records membership of a room by id or name. Use enter to start chatting.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		room, err := resolveRoom(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving room: %v\n", err)
			return
		}
		if err := controller.JoinRoom(ctx, room.ID); err != nil {
			if errors.Is(err, directory.ErrAlreadyMember) {
				fmt.Printf("Already a member of #%d\n", room.ID)
				return
			}
			fmt.Fprintf(os.Stderr, "Error joining room: %v\n", err)
			return
		}
		fmt.Printf("Joined #%d\n", room.ID)
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
}

// ensureMember joins room unless the user already is a member.
func ensureMember(ctx context.Context, roomID int64) error {
	err := controller.JoinRoom(ctx, roomID)
	if errors.Is(err, directory.ErrAlreadyMember) {
		return nil
	}
	return err
}
