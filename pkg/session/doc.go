/*
Package session implements thread access management and persistence orchestration.

It provides high-level abstractions for handling concurrent access to conversation
threads across multiple replicas, integrating local mutexes with distributed locking
and long-term storage adapters.
*/
package session
