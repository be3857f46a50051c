/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configKeys = []string{serverKey, wsServerKey, logLevelKey}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Gets or sets client settings.",
	Long: `Manages the client configuration file.
Without arguments it prints every setting. With a key it prints that setting,
and with a key and a value it stores the value. Settings take effect the next
time the client starts.

Keys: server, ws_server, log_level.`,
	Args:      cobra.MaximumNArgs(2),
	ValidArgs: configKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			for _, key := range configKeys {
				fmt.Printf("%s: %s\n", key, viper.GetString(key))
			}
			if file := viper.ConfigFileUsed(); file != "" {
				fmt.Printf("file: %s\n", file)
			}
			return
		}

		key := args[0]
		if !slices.Contains(configKeys, key) {
			fmt.Fprintf(os.Stderr, "Unknown key: %s\n", key)
			return
		}
		if len(args) == 1 {
			fmt.Println(viper.GetString(key))
			return
		}
		if key == serverKey || key == wsServerKey {
			if _, err := websocketBase(args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid url: %v\n", err)
				return
			}
		}
		viper.Set(key, args[1])
		if err := saveConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing config file:", err)
			return
		}
		fmt.Printf("%s set to: %s\n", key, args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
