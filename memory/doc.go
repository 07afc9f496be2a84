// Package memory implements the two-level conversation store: a global
// session per caller token plus isolated sessions per (token, agent) pair.
// State lives for the process lifetime only; durable persistence is out of
// scope.
package memory
