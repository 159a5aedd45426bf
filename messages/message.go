package messages

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/uuidx"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallRecord captures a single tool invocation hanging off a
// conversation entry. A record is created when the call is issued and is
// completed exactly once when its result or error arrives; it is never
// deleted independently of its owning entry.
type ToolCallRecord struct {
	ID        string          `json:"id"`
	ToolName  string          `json:"tool_name"`
	Arguments map[string]any  `json:"arguments,omitempty"`
	Result    any             `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
	Duration  time.Duration   `json:"duration,omitempty"`
}

// Completed reports whether the record has received its result or error.
func (r ToolCallRecord) Completed() bool {
	return r.Result != nil || r.Error != ""
}

// Entry is one turn of conversation history. Tokens caches the estimated
// token cost computed when the entry was appended, so window management does
// not re-estimate unchanged history every turn.
type Entry struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
	Timestamp strfmt.DateTime  `json:"timestamp"`
	Tokens    int              `json:"tokens"`
}

// NewEntry creates an entry with a fresh v7 id and the current timestamp.
// The token count is left at zero; the conversation store fills it in.
func NewEntry(role Role, content string) Entry {
	return Entry{
		ID:        uuidx.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// NewToolCallRecord creates a record for a freshly issued call.
func NewToolCallRecord(toolName string, args map[string]any) ToolCallRecord {
	return ToolCallRecord{
		ID:        uuidx.NewString(),
		ToolName:  toolName,
		Arguments: args,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// HasToolCalls reports whether the entry carries any tool-call records.
func (e Entry) HasToolCalls() bool {
	return len(e.ToolCalls) > 0
}
