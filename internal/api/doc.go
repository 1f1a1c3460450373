// Package api wraps the story-to-video backend's REST surface in typed calls.
//
// Every record here is server-owned; the console only displays them and
// PATCHes individual fields. Patch structs use pointer fields so a PATCH
// carries exactly the fields the caller set. Long-running operations
// (segmentation, generation, extraction, composition) return immediately and
// report progress over the WebSocket channel handled by internal/progress.
package api
