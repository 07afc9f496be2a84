// Package directory provides the in-memory agent card directory consumed by
// the host and refreshed wholesale by the registry loader.
package directory
