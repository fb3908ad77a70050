/*
Package voyant is an AI travel agent library built around a tool-calling loop: a language model decides, travel search tools execute, and the loop feeds results back until the model produces an answer.

It separates the conversation loop (Orchestrator) from the model (Oracle) and the side-effects (Tool Dispatcher), so each piece can be swapped or tested alone.

# Concept

Voyant treats one user request as a series of decision rounds. On each round the oracle either answers in prose or asks for tool calls (flight search, hotel search). The dispatcher resolves free-text locations to airport codes, runs the searches, and hands the structured results back for the next round. This Hexagonal Architecture allows Voyant to be embedded in any interface: CLI, HTTP server, or MCP tooling.

# Key Features

  - Self-Correcting Loop: Bad tool names and unresolvable locations go back to the oracle as errors it can react to, instead of ending the turn.
  - Hexagonal Architecture: Core logic is decoupled from adapters (Gemini, SerpApi, Redis, HTTP).
  - Thread Persistence: Conversations are stored under thread IDs and can be resumed later, from another process with the Redis store.
  - Deterministic Tool Rounds: Results are recorded in call order whether tools ran sequentially or in parallel.

# Usage

Initialize the agent with an oracle plus the two search collaborators, then hand it user text. Process starts a new thread; Resume continues one.

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/voyant"
		"github.com/aretw0/voyant/pkg/adapters/gemini"
		"github.com/aretw0/voyant/pkg/adapters/serpapi"
		"github.com/aretw0/voyant/pkg/dispatch"
	)

	func main() {
		ctx := context.Background()

		oracle, err := gemini.New(ctx, os.Getenv("GOOGLE_API_KEY"), dispatch.Catalog())
		if err != nil {
			log.Fatal(err)
		}
		search := serpapi.New(os.Getenv("SERPAPI_API_KEY"))

		agent, err := voyant.New(oracle,
			voyant.WithFlightSearcher(search),
			voyant.WithHotelSearcher(search),
		)
		if err != nil {
			log.Fatal(err)
		}

		reply, err := agent.Process(ctx, "Find a flight from Boston to Paris on 2026-09-12")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(reply.Text)

		// Follow-up turns reuse the thread.
		reply, err = agent.Resume(ctx, reply.ThreadID, "And a hotel near the Louvre for two nights")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text)
	}
*/
package voyant
