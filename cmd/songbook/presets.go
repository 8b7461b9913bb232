// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/songbook/internal/convert"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available delimiter presets",
	Long: `Presets lists the built-in delimiter presets together with any declared
under "presets" in the config file. Configured presets replace built-ins
of the same name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configured, err := configuredPresets()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%-16s  %-16s  %-12s  %-8s  %s\n", "Name", "Marker", "Label", "Numbered", "Pattern")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
		for _, p := range convert.Presets(configured) {
			fmt.Fprintf(os.Stdout, "%-16s  %-16s  %-12s  %-8t  %s\n",
				p.Name, p.Marker, p.Label, p.Numbered, p.Pattern)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of songbook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("songbook %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}
