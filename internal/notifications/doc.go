// Package notifications delivers pipeline milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles let users subscribe to only the milestones they
// care about; long video generation runs are the usual reason to enable it.
//
// Extend this package if you need alternative transports; the watch loop
// depends only on the Service interface.
package notifications
