/*
Package ports defines the driven ports (interfaces) for the Voyant agent.

These interfaces decouple the conversation loop from external implementations,
allowing the agent to work with various oracles, search collaborators, and
storage backends.

# Key Interfaces

  - Oracle: The decision step; inspects history and either requests tool
    executions or produces the final answer.
  - FlightSearcher / HotelSearcher: The external lookup collaborators.
  - HistoryStore: Responsible for persisting and loading thread history.
  - DistributedLocker: Provides distributed locking for concurrent access to
    one thread.
*/
package ports
