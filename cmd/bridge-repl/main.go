// Command bridge-repl exercises the full bridge pipeline against a demo
// tool catalog. Each line read from stdin is treated as a raw model
// response; it is parsed, validated, executed against stub tools, and the
// results are injected back into a managed conversation. With no piped
// input it replays a built-in script instead.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/k0kubun/pp/v3"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	bridge "github.com/mayanksingh09/ollama-mcp-client-sub000"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/conversation"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/formatter"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/injector"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/stdx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

const model = "llama3.2"

var script = []string{
	"```json\n{\"tool_name\": \"get_weather\", \"arguments\": {\"location\": \"Paris\"}}\n```",
	"Use the calculator to add 5 and 3",
	"Calculate 5 + 3 and then email the result to john@example.com",
	"The Eiffel Tower is 330 metres tall.",
}

func main() {
	catalogs := bridge.NewCatalogs()
	catalogs.Register("demo", demoCatalog())
	catalog, _ := catalogs.Lookup("demo")

	sim := stdx.Must1(bridge.NewSimulator())
	store := stdx.Must1(conversation.New())

	fmt.Println(sim.BuildSystemPrompt(catalog))
	store.Append(messages.RoleSystem, sim.BuildSystemPrompt(catalog), nil, nil)

	for _, response := range responses() {
		handleResponse(sim, store, catalog, response)
	}

	window, err := sim.Manager().ManageWindow(store.History(), model, 512)
	if err != nil {
		log.Fatal().Err(err).Msg("managing context window")
	}
	stats := sim.Manager().Statistics(window)
	log.Info().
		Int("messages", stats.Messages).
		Int("tokens", window.Tokens).
		Int("budget", window.Budget).
		Float64("utilization", stats.Utilization).
		Str("model", model).
		Msg("final window")
	fmt.Println(store.Summary())
}

// responses yields the model turns to process: piped stdin lines when
// present, the built-in script otherwise.
func responses() []string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return script
	}
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, strings.ReplaceAll(line, "\\n", "\n"))
		}
	}
	if len(lines) == 0 {
		return script
	}
	return lines
}

func handleResponse(sim *bridge.Simulator, store *conversation.Store, catalog tool.Catalog, response string) {
	normalized, decided := sim.PostProcess(response, catalog, store.History()...)
	pp.Println(decided)

	if !decided.ShouldInvoke {
		store.Append(messages.RoleAssistant, response, nil, nil)
		return
	}

	formatted, err := sim.Formatter().FormatBatch(decided.Calls, catalog)
	if err != nil {
		log.Warn().Err(err).Msg("formatting tool calls")
		store.Append(messages.RoleAssistant, normalized, nil, nil)
		return
	}

	entry := store.Append(messages.RoleAssistant, normalized, nil, nil)
	var batch []injector.BatchItem
	for _, call := range formatted {
		record := messages.NewToolCallRecord(call.ToolName, call.Arguments)
		store.RecordToolCall(entry.ID, record)

		started := time.Now()
		result := execute(call)
		store.CompleteToolCall(record.ID, result.Content, errorText(result), time.Since(started))

		batch = append(batch, injector.BatchItem{ToolName: call.ToolName, Result: result})
	}
	store.Append(messages.RoleTool, sim.Injector().InjectBatch(batch), nil, nil)
}

// execute runs a formatted call against the stub tools.
func execute(call formatter.FormattedCall) injector.Result {
	switch call.ToolName {
	case "get_weather":
		location, _ := call.Arguments["location"].(string)
		return textResult(fmt.Sprintf("Weather in %s: 18°C, partly cloudy", location), false)
	case "calculator":
		a, aok := call.Arguments["a"].(float64)
		b, bok := call.Arguments["b"].(float64)
		if !aok || !bok {
			return textResult("calculator requires numeric operands a and b", true)
		}
		return textResult(strconv.FormatFloat(a+b, 'f', -1, 64), false)
	case "send_email":
		to, _ := call.Arguments["to"].(string)
		return textResult(fmt.Sprintf("email queued for %s", to), false)
	default:
		return textResult(fmt.Sprintf("no executor for tool %q", call.ToolName), true)
	}
}

func textResult(text string, isError bool) injector.Result {
	return injector.Result{
		Content: []injector.ContentItem{{Type: "text", Text: text}},
		IsError: isError,
	}
}

func errorText(result injector.Result) string {
	if !result.IsError {
		return ""
	}
	var parts []string
	for _, item := range result.Content {
		if item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "; ")
}

func demoCatalog() tool.Catalog {
	return tool.Catalog{
		tool.Must(tool.New("get_weather",
			tool.WithDescription("Get the current weather for a location"),
			tool.WithProperty("location", tool.Property{
				Type:        tool.TypeString,
				Description: "City name",
			}, true),
		)),
		tool.Must(tool.New("calculator",
			tool.WithDescription("Calculate the result of arithmetic expressions"),
			tool.WithProperty("a", tool.Property{Type: tool.TypeNumber, Description: "First operand"}, true),
			tool.WithProperty("b", tool.Property{Type: tool.TypeNumber, Description: "Second operand"}, true),
		)),
		tool.Must(tool.New("send_email",
			tool.WithDescription("Send an email message to a recipient"),
			tool.WithProperty("to", tool.Property{Type: tool.TypeString, Description: "Recipient address"}, true),
			tool.WithProperty("subject", tool.Property{Type: tool.TypeString, Description: "Subject line"}, false),
			tool.WithProperty("body", tool.Property{Type: tool.TypeString, Description: "Message body"}, false),
		)),
	}
}
