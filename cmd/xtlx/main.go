package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xtlx",
	Short: "Host-side tooling for the xtlx HAL",
	Long:  "Inspect the chip catalog and exercise the synchronization primitives of the xtlx HAL on the simulated machine.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
