// Package core defines the shared data model and service contracts of the
// A2A host orchestrator: agent cards, conversation sessions, delegation
// traces, the host request/response pair, and the interfaces implemented by
// the directory, memory, selector and executor packages.
//
// The orchestrator is assembled by explicit dependency injection: one
// instance of each service is constructed at process start and passed into
// host.New. Nothing in this package holds global state.
package core
