// Package memory provides in-process implementations of the kitchen ports,
// used by tests, the chat command and single-replica deployments.
package memory
