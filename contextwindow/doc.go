// Package contextwindow keeps a conversation inside a model's token budget.
//
// The manager resolves a budget from the model name (longest-substring match
// over a table of known model families, failing open to a conservative
// default), reserves space for the upcoming completion, and only when the
// estimated size actually exceeds the budget reshapes the message list
// with one of four strategies: sliding window, summarization,
// importance-based selection, or a hybrid of the last two.
//
// Strategies form a closed, fixed-order set behind one interface and never
// mutate their input; each returns a fresh message list.
package contextwindow
