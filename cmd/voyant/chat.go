package main

import (
	"fmt"
	"os"

	"github.com/aretw0/voyant/internal/cli"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the travel agent in your terminal",
	Long: `Starts an interactive conversation. Every turn shares one thread, so
follow-up questions keep their context. Type 'exit' or 'quit' to leave.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		threadID, _ := cmd.Flags().GetString("thread")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.Chat(cli.ChatOptions{
			ConfigPath: configPath,
			ThreadID:   threadID,
			JSON:       jsonMode,
			Debug:      debug,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("thread", "", "Resume an existing conversation thread")
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	chatCmd.Flags().BoolP("debug", "d", false, "Log the decision loop while chatting")

	// Make 'chat' the default if no command is provided
	rootCmd.Run = chatCmd.Run
}
