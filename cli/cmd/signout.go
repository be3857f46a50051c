/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// signoutCmd represents the signout command
var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Leaves the current room and signs out.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := controller.SignOut(ctx)

		// the local identity is gone either way
		viper.Set(userIDKey, 0)
		viper.Set(usernameKey, "")
		if werr := saveConfig(); werr != nil {
			fmt.Fprintln(os.Stderr, "Error writing config file:", werr)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error signing out: %v\n", err)
			return
		}
		fmt.Println("Signed out.")
	},
}

func init() {
	rootCmd.AddCommand(signoutCmd)
}
