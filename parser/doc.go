// Package parser extracts candidate tool calls from raw model output.
//
// Model text is an open-ended, adversarial format: anything from a clean
// fenced JSON block to a vague English sentence may carry an intended call.
// The parser runs a closed, fixed-order chain of strategies (JSON, XML,
// markdown, ReAct-style structured text), each guarded by a cheap CanParse
// probe. The first strategy that both claims the text and yields at least
// one candidate wins; otherwise the natural-language fallback runs.
//
// Every strategy discards candidates whose tool name is not in the supplied
// catalog. That filter is the single authoritative guard against
// hallucinated tool names leaking into dispatch.
package parser
