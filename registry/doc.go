// Package registry integrates the external agent registry service: a thin
// HTTP client for its public listing and agent-card endpoints, an adapter
// converting registry records into routing cards, and a Loader that
// periodically rebuilds the agent directory from registry data.
//
// The registry itself is an external collaborator; this package only
// consumes it. Loader failures never disturb request serving; the previous
// directory snapshot stays in effect until a refresh fully succeeds.
package registry
