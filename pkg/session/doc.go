/*
Package session implements session management and persistence orchestration.

It serializes turns per user across goroutines with reference-counted local
locks and, when configured, across replicas with a distributed lock, while
delegating long-term storage to a ports.SessionStore.
*/
package session
