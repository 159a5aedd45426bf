// Package messages defines the conversation data model shared by every part
// of the tool-calling bridge: roles, conversation entries, and the records of
// individual tool invocations attached to them.
//
// Entries are immutable once created, with one exception: a ToolCallRecord
// may receive its result (or error) exactly once when the external dispatch
// layer completes. Everything else that reshapes history (eviction,
// truncation, summarization) produces new entries rather than mutating old
// ones, which is what makes the context-window strategies safe to run over
// shared slices.
package messages
