// Package progress consumes the backend's /ws/progress WebSocket channel.
//
// The backend tags every JSON frame with a type field (shot_progress,
// video_progress, extraction_progress, ...). The listener decodes frames into
// a single Event union, patches the shared state store, and hands the event
// to an optional callback for live display. Dropped connections redial with
// capped exponential backoff until the context ends.
package progress
