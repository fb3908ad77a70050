package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant/internal/cli"
	"github.com/aretw0/voyant/internal/config"
	"github.com/aretw0/voyant/internal/presentation/graph"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// threadsCmd represents the threads command group
var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Inspect saved conversation threads",
	Long: `Lists, shows and deletes conversation threads from the configured
history store. Threads only survive across processes with the file or redis
backends.`,
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored thread IDs",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)

		ids, err := store.List(context.Background())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Println("No threads stored.")
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a thread's conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		store := openStore(cmd)

		thread, err := store.Load(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if mermaid {
			fmt.Println(graph.GenerateMermaid(thread))
			return
		}
		printThread(thread)
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored thread",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)

		if err := store.Delete(context.Background(), args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted thread %s\n", args[0])
	},
}

func openStore(cmd *cobra.Command) ports.HistoryStore {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := cli.BuildStore(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

func printThread(thread *domain.Thread) {
	fmt.Printf("Thread %s (%d rounds, %s)\n", thread.ID, thread.Rounds, thread.Phase)
	for _, msg := range thread.Messages {
		switch msg.Role {
		case domain.RoleAssistant:
			for _, call := range msg.ToolCalls {
				args, _ := json.Marshal(call.Args)
				fmt.Printf("  assistant -> %s(%s) [%s]\n", call.Name, compactJSON(string(args)), call.ID)
			}
			if msg.Content != "" {
				fmt.Printf("  assistant: %s\n", msg.Content)
			}
		case domain.RoleTool:
			fmt.Printf("  %s [%s]: %s\n", msg.ToolName, msg.ToolCallID, compactJSON(msg.Content))
		default:
			fmt.Printf("  %s: %s\n", msg.Role, msg.Content)
		}
	}
}

// compactJSON keeps long tool payloads to one readable line.
func compactJSON(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsShowCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)

	threadsShowCmd.Flags().Bool("mermaid", false, "Render the thread as a Mermaid sequence diagram")
}
