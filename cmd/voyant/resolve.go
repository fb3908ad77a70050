package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant/pkg/location"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [text]",
	Short: "Resolve location text to an airport code",
	Long: `Resolves free-form location text to an IATA airport code using the
built-in gazetteer, without calling any external service.

Examples:
  voyant resolve "new york"
  voyant resolve NYC
  voyant resolve sao paulo --json`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		text := strings.Join(args, " ")

		res := location.Resolve(text)

		if jsonMode {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if !res.Resolved() {
				os.Exit(1)
			}
			return
		}

		if !res.Resolved() {
			fmt.Printf("Could not resolve location: %s\n", text)
			os.Exit(1)
		}

		fmt.Printf("%s -> %s\n", res.Original, res.Code)
		if !res.IsAlreadyCode && res.CanonicalName != "" {
			fmt.Printf("  city: %s\n", res.CanonicalName)
		}
		if len(res.Alternatives) > 0 {
			fmt.Printf("  alternatives: %s\n", strings.Join(res.Alternatives, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Bool("json", false, "Print the full resolution as JSON")
}
