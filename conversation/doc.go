// Package conversation provides the in-memory store for a session's message
// history: ordered entries, running token accounting, tool-call back-fill by
// id, budget-filtered retrieval, and snapshot export/import for an external
// persistence layer.
//
// The store enforces two independent caps. When the entry count exceeds its
// maximum, the oldest non-system entries are dropped and an EventTruncated is
// reported to the observer. When the running token total crosses the
// configured threshold, older history is collapsed into a single synthetic
// system summary instead of being deleted outright.
//
// A store belongs to exactly one logical session and is not safe for
// concurrent use; hosts that interleave turns must serialize access.
package conversation
