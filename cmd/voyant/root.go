package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voyant",
	Short: "Voyant is an AI travel agent for flights and hotels",
	Long: `Voyant answers travel questions in natural language. A Gemini-driven
decision loop plans Google Flights and Google Hotels lookups through SerpApi
and folds the results into a single reply.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (voyant.yaml in the working directory by default)")
}
