package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/xtlx/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the chip catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, target := range targets.All() {
			fmt.Printf("%-12s cores=%d clock=%dMHz chips=%s",
				target.Series, target.Cores, target.CPUFreqHz/1_000_000,
				strings.Join(target.Chips, ","))
			if len(target.Tags) > 0 {
				fmt.Printf(" tags=%s", strings.Join(target.Tags, ","))
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
