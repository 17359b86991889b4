package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/conform"
	"github.com/aretw0/conform/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of conform",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), stdoutProfile())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "conform version %s\n", strings.TrimSpace(conform.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
