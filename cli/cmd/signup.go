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

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup <username> [password]",
	Short: "Creates an account.",
	Long:  `Registers a new user on the chat server. Use signin afterwards.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := passwordArg(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		u, err := controller.SignUp(ctx, args[0], password)
		if err != nil {
			var de *directory.DirectoryError
			if errors.As(err, &de) && !de.Transport() && de.Message != "" {
				fmt.Fprintf(os.Stderr, "Sign up failed: %s\n", de.Message)
				return
			}
			fmt.Fprintf(os.Stderr, "Error signing up: %v\n", err)
			return
		}
		fmt.Printf("Created user %s (id %d)\n", u.Username, u.ID)
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
}
