// Command catchreport enriches a catch log export and prints region or
// species reports, plus a few lookups for checking the gazetteer.
//
// Usage:
//
//	catchreport build catches.json --group species --from 2024-03-01 --to 2024-03-31
//	catchreport classify 41.01 28.97
//	catchreport moon 2024-03-15
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catchreport",
		Short: "Enrich catch logs and print catch reports",
		Long: `catchreport reads a JSON array of catch records, enriches each with its
region, weather, sea state and lunar phase, and prints them grouped by region
or species.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(moonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
