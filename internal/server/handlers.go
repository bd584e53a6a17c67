package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/jsnum"
	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/tools"
)

// EvalRequest is the body of POST /api/eval.
type EvalRequest struct {
	Variant string   `json:"variant"`
	Keys    []string `json:"keys"`
}

// EvaluationView is one completed operation.
type EvaluationView struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Chained    bool   `json:"chained"`
}

// EvalResponse is the reply to POST /api/eval.
type EvalResponse struct {
	Variant     string           `json:"variant"`
	Display     string           `json:"display"`
	Displays    []string         `json:"displays"`
	Evaluations []EvaluationView `json:"evaluations"`
}

// ToolView describes a tool in GET /api/tools.
type ToolView struct {
	Name     string        `json:"name"`
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Fields   []tools.Field `json:"fields"`
}

// ToolRequest is the body of POST /api/tools/{name}.
type ToolRequest struct {
	Inputs map[string]string `json:"inputs"`
}

// ToolResponse is the reply to POST /api/tools/{name}.
type ToolResponse struct {
	Tool   string            `json:"tool"`
	Inputs map[string]string `json:"inputs"`
	Lines  []tools.Line      `json:"lines"`
}

// SocketReply is sent for every websocket frame received.
type SocketReply struct {
	Display    string          `json:"display,omitempty"`
	Evaluation *EvaluationView `json:"evaluation,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func parseVariant(name string) (calc.Variant, error) {
	if strings.TrimSpace(name) == "" {
		return calc.Basic, nil
	}
	return calc.ParseVariant(name)
}

// parseKeyList turns each element into its key presses. A multi-digit
// numeral expands to one press per character; anything else must be a
// single key.
func parseKeyList(v calc.Variant, keys []string) ([]calc.Event, error) {
	events := make([]calc.Event, 0, len(keys))
	for _, key := range keys {
		if len(strings.Fields(key)) != 1 {
			return nil, fmt.Errorf("invalid key %q (one key per element)", key)
		}
		evs, err := calc.ParseKeys(v, key)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFromContext(r.Context())
	ctx, span := tracer.Start(r.Context(), "calc.eval",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req EvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(span, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	variant, err := parseVariant(req.Variant)
	if err != nil {
		s.fail(span, w, http.StatusBadRequest, err.Error(), err)
		return
	}
	events, err := parseKeyList(variant, req.Keys)
	if err != nil {
		s.fail(span, w, http.StatusBadRequest, err.Error(), err)
		return
	}
	tr := calc.Run(variant, events)

	span.SetAttributes(
		attribute.String("calc.variant", string(variant)),
		attribute.Int("calc.keys", len(req.Keys)),
		attribute.Int("calc.evaluations", len(tr.Evaluations)),
		attribute.String("calc.display", tr.Final),
	)
	s.metrics.evaluations.WithLabelValues(string(variant)).Add(float64(len(tr.Evaluations)))
	s.recordTape(ctx, requestID, tr.Evaluations)
	span.SetStatus(codes.Ok, "")

	resp := EvalResponse{
		Variant:     string(variant),
		Display:     tr.Final,
		Displays:    tr.Displays,
		Evaluations: make([]EvaluationView, 0, len(tr.Evaluations)),
	}
	if resp.Displays == nil {
		resp.Displays = []string{}
	}
	for _, ev := range tr.Evaluations {
		resp.Evaluations = append(resp.Evaluations, evaluationView(ev))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.Tools()
	out := make([]ToolView, 0, len(all))
	for _, t := range all {
		out = append(out, ToolView{Name: t.Name, Title: t.Title, Category: string(t.Category), Fields: t.Fields})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRunTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx, span := tracer.Start(r.Context(), "tools.run",
		trace.WithAttributes(
			attribute.String("tool.name", name),
			attribute.String("request.id", RequestIDFromContext(r.Context())),
		),
	)
	defer span.End()

	if _, ok := s.registry.Lookup(name); !ok {
		s.fail(span, w, http.StatusNotFound, fmt.Sprintf("unknown tool %q", name), nil)
		return
	}
	var req ToolRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.fail(span, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}
	res, err := s.registry.Run(name, req.Inputs)
	if err != nil {
		s.fail(span, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	s.metrics.toolRuns.WithLabelValues(res.Tool).Inc()
	if s.recorder != nil {
		run := model.ToolRun{Tool: res.Tool, Inputs: res.Inputs, CreatedAt: time.Now()}
		for _, l := range res.Lines {
			run.Outputs = append(run.Outputs, model.ToolLine{Label: l.Label, Value: l.Value})
		}
		if _, err := s.recorder.InsertToolRun(ctx, run); err != nil {
			span.RecordError(err)
			s.logger.Error("failed to record tool run", zap.String("tool", res.Tool), zap.Error(err))
		}
	}
	span.SetStatus(codes.Ok, "")
	writeJSON(w, http.StatusOK, ToolResponse{Tool: res.Tool, Inputs: res.Inputs, Lines: res.Lines})
}

// handleWebsocket drives one accumulator per connection. Each text frame
// is a single key token.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	variant, err := parseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	sessionID := uuid.NewString()
	logger := s.logger.With(zap.String("session_id", sessionID), zap.String("variant", string(variant)))
	logger.Info("websocket connected")

	var display string
	var last *EvaluationView
	acc := calc.New(variant, func(d string) { display = d })
	acc.OnEvaluate(func(ev calc.Evaluation) {
		view := evaluationView(ev)
		last = &view
		s.metrics.evaluations.WithLabelValues(string(variant)).Inc()
		s.recordTape(r.Context(), sessionID, []calc.Evaluation{ev})
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		reply := SocketReply{}
		ev, err := calc.ParseKey(variant, string(data))
		if err != nil {
			reply.Error = err.Error()
		} else {
			last = nil
			acc.Press(ev)
			reply.Display = display
			reply.Evaluation = last
		}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			break
		}
	}
	logger.Info("websocket closed")
}

func (s *Server) recordTape(ctx context.Context, sessionID string, evs []calc.Evaluation) {
	if s.recorder == nil || len(evs) == 0 {
		return
	}
	entries := make([]model.TapeEntry, 0, len(evs))
	now := time.Now()
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
	if err := s.recorder.InsertTape(ctx, entries...); err != nil {
		s.logger.Error("failed to record tape", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// fail records err on span, logs it and writes a JSON error.
func (s *Server) fail(span trace.Span, w http.ResponseWriter, status int, msg string, err error) {
	if err == nil {
		err = errors.New(msg)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.Warn(msg, zap.Int("status", status), zap.Error(err))
	writeError(w, status, msg)
}

func evaluationView(ev calc.Evaluation) EvaluationView {
	return EvaluationView{
		Expression: ev.Expression(),
		Result:     jsnum.Format(ev.Result),
		Chained:    ev.Chained,
	}
}
