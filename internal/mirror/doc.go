// Package mirror persists the last fetched story tree per story in SQLite so
// the console can show cached state while the backend is down.
//
// The Store holds a file lock for its lifetime so only one console process
// writes to a mirror directory at a time. Rows store the full tree and world
// bible as a JSON payload keyed by story ID; columns exist only for what the
// list view needs. Schema changes bump the version in schema.go; users delete
// the mirror directory to adopt the new schema.
package mirror
