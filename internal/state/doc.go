// Package state holds the console's shared mutable state: the mirrored story
// tree snapshot, the progress channel connection status, and the most recent
// error. A single Store instance is shared between the progress listener
// (writer) and the rendering loops (readers).
//
// Notification is intentionally loose: watchers get change notices, not
// values, and slow watchers lose notices instead of blocking writers. Readers
// re-fetch current values on wakeup, so state is always last-write-wins.
package state
