// Package mcpserver exposes the calculators and formula tools as Model
// Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/jsnum"
	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/tools"
)

const toolsResourceURI = "calcdeck://tools"

// Recorder persists evaluations and tool runs. *store.Store satisfies it.
type Recorder interface {
	InsertTape(ctx context.Context, entries ...model.TapeEntry) error
	InsertToolRun(ctx context.Context, run model.ToolRun) (int64, error)
}

// Handlers implements the MCP tool callbacks.
type Handlers struct {
	registry *tools.Registry
	recorder Recorder
	logger   *zap.Logger
}

// NewHandlers returns handlers over registry. recorder and logger may be nil.
func NewHandlers(registry *tools.Registry, recorder Recorder, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{registry: registry, recorder: recorder, logger: logger}
}

// New builds an MCP server with the calculator tool, one tool per formula
// tool and a resource listing the formula tools.
func New(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"calcdeck",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
		server.WithRecovery(),
	)

	s.AddTool(calculatorTool(), h.Calculator)
	for _, t := range h.registry.Tools() {
		s.AddTool(formulaTool(t), h.Tool(t.Name))
	}

	toolsResource := mcp.NewResource(toolsResourceURI,
		"Formula Tools",
		mcp.WithResourceDescription("Every formula tool with its inputs and defaults"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(toolsResource, h.ToolsResource)
	return s
}

// ServeStdio runs s over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func calculatorTool() mcp.Tool {
	variants := make([]string, 0, len(calc.Variants()))
	for _, v := range calc.Variants() {
		variants = append(variants, string(v))
	}
	return mcp.NewTool("calculator",
		mcp.WithDescription("Press keys on a fresh calculator and report the display. "+
			"Keys are whitespace-separated: digits, '.', operators, '=', 'c' (clear), 'b' (backspace), "+
			"and on the scientific calculator sin, cos, tan, log, sqrt and pi. "+
			"Operators apply left to right as they are pressed, with no precedence."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Key presses, e.g. '12 + 3 * 2 ='"),
		),
		mcp.WithString("variant",
			mcp.Description("Calculator variant"),
			mcp.DefaultString(string(calc.Basic)),
			mcp.Enum(variants...),
		),
	)
}

func formulaTool(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(fmt.Sprintf("%s (%s)", t.Title, t.Category))}
	for _, f := range t.Fields {
		props := []mcp.PropertyOption{
			mcp.Description(f.Label),
			mcp.DefaultString(f.Default),
		}
		if len(f.Options) > 0 {
			props = append(props, mcp.Enum(f.Options...))
		}
		opts = append(opts, mcp.WithString(f.Key, props...))
	}
	return mcp.NewTool(t.Name, opts...)
}

// Calculator runs the calculator tool.
func (h *Handlers) Calculator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	keys, ok := args["keys"].(string)
	if !ok || strings.TrimSpace(keys) == "" {
		return mcp.NewToolResultError("keys is required"), nil
	}
	name, _ := args["variant"].(string)
	variant := calc.Basic
	if strings.TrimSpace(name) != "" {
		v, err := calc.ParseVariant(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		variant = v
	}

	tr, err := calc.RunKeys(variant, keys)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.recordTape(ctx, tr.Evaluations)

	var b strings.Builder
	fmt.Fprintf(&b, "Display: %s", tr.Final)
	for _, ev := range tr.Evaluations {
		fmt.Fprintf(&b, "\n%s = %s", ev.Expression(), jsnum.Format(ev.Result))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Tool returns the handler for the named formula tool.
func (h *Handlers) Tool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inputs := map[string]string{}
		for key, value := range request.GetArguments() {
			switch v := value.(type) {
			case string:
				inputs[key] = v
			case float64:
				inputs[key] = jsnum.Format(v)
			case bool:
				inputs[key] = fmt.Sprint(v)
			default:
				return mcp.NewToolResultError(fmt.Sprintf("%s must be a string", key)), nil
			}
		}
		res, err := h.registry.Run(name, inputs)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.recordToolRun(ctx, res)
		return mcp.NewToolResultText(res.String()), nil
	}
}

// ToolsResource lists the formula tools as JSON.
func (h *Handlers) ToolsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		Name     string        `json:"name"`
		Title    string        `json:"title"`
		Category string        `json:"category"`
		Fields   []tools.Field `json:"fields"`
	}
	all := h.registry.Tools()
	list := make([]entry, 0, len(all))
	for _, t := range all {
		list = append(list, entry{Name: t.Name, Title: t.Title, Category: string(t.Category), Fields: t.Fields})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      toolsResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *Handlers) recordTape(ctx context.Context, evs []calc.Evaluation) {
	if h.recorder == nil || len(evs) == 0 {
		return
	}
	sessionID := uuid.NewString()
	now := time.Now()
	entries := make([]model.TapeEntry, 0, len(evs))
	for _, ev := range evs {
		entries = append(entries, model.TapeEntry{
			SessionID:  sessionID,
			Variant:    string(ev.Variant),
			Expression: ev.Expression(),
			Result:     jsnum.Format(ev.Result),
			Chained:    ev.Chained,
			CreatedAt:  now,
		})
	}
	if err := h.recorder.InsertTape(ctx, entries...); err != nil {
		h.logger.Error("failed to record tape", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (h *Handlers) recordToolRun(ctx context.Context, res tools.Result) {
	if h.recorder == nil {
		return
	}
	run := model.ToolRun{Tool: res.Tool, Inputs: res.Inputs, CreatedAt: time.Now()}
	for _, l := range res.Lines {
		run.Outputs = append(run.Outputs, model.ToolLine{Label: l.Label, Value: l.Value})
	}
	if _, err := h.recorder.InsertToolRun(ctx, run); err != nil {
		h.logger.Error("failed to record tool run", zap.String("tool", res.Tool), zap.Error(err))
	}
}
