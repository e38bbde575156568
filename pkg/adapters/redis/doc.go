// Package redis implements the kitchen ports on Redis: sessions, the
// distributed turn lock, the user → device registry and simulated shadows.
package redis
