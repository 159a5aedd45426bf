// Package bridge lets a plain chat-completion model, one with no native
// function-calling, participate in a structured tool-invocation protocol.
//
// The bridge reconciles an open-ended, adversarial text format (anything a
// model may emit) with a closed, strongly-typed protocol (exact tool name,
// exact argument types). Its pieces, leaf-first:
//
//   - tokens: pluggable token estimation (default 1 token ≈ 4 chars)
//   - conversation: in-memory history with token accounting and snapshots
//   - contextwindow: per-model budget enforcement via pluggable strategies
//   - parser: multi-strategy extraction of candidate calls from raw text
//   - decision: implicit intent, ranking, dedup, chaining, usage history
//   - formatter: schema validation and type coercion of arguments
//   - injector: folding tool results back into the narrative
//
// The Simulator in this package is the thin orchestrator over those parts:
// it builds the system prompt that teaches the model the canonical call
// syntaxes, and post-processes responses that expressed a tool intent
// without using one.
//
// The bridge performs no I/O. Transport to tool servers, model inference,
// and persistence are external collaborators consumed through narrow
// interfaces; a turn that parses as no tool call simply proceeds as
// ordinary conversation.
package bridge
