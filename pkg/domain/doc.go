/*
Package domain contains the core domain models for the Voyant agent.

It defines the fundamental entities of the conversation loop: Messages,
ToolCalls and their results, the Thread that owns a session's history, and the
typed queries handed to the search collaborators. This package is kept pure
and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Message: One conversational turn (user, assistant, or tool result).
  - ToolCall / ToolResult: A lookup requested by the oracle and its outcome.
  - Thread: The append-only history and phase of one session.
  - FlightsQuery / HotelsQuery: Typed collaborator arguments, coerced at the
    dispatcher boundary.
*/
package domain
