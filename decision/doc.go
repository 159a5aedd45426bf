// Package decision turns parsed candidates into a single ranked verdict:
// should any tool be invoked, and in what order.
//
// The engine layers four signals on top of the response parser: implicit
// intent scored against every catalog tool with a fixed formula, usage
// history kept in a bounded ordered map, connector-word chaining ("...and
// then..."), and deduplication by (tool name, canonicalized arguments) that
// keeps the higher-confidence duplicate. The scoring formulas are the
// compatibility contract of the bridge; change them and downstream hosts'
// thresholds silently shift.
//
// Scoring functions are pure over their inputs. Only the engine itself
// mutates the usage history, after a decision is produced, which keeps every
// scoring path independently testable.
package decision
