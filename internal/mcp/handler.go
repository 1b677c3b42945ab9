package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Rodriguespn/skybridge/pkg/errors"
	"github.com/Rodriguespn/skybridge/pkg/logger"
)

// SessionHeader carries the session token on every exchange after the first.
const SessionHeader = "Mcp-Session-Id"

// ToolDispatcher maps named tool invocations to handlers. Tool-level
// failures come back as failure-flagged results, not as errors; the error
// return is reserved for unknown tool names.
type ToolDispatcher interface {
	ListTools() []Tool
	CallTool(ctx context.Context, name string, args json.RawMessage) (*CallToolResult, error)
}

// ResourceProvider serves the advertised UI documents.
type ResourceProvider interface {
	ListResources() []Resource
	ReadResource(uri string) (*ResourceContents, error)
}

// Handler is the HTTP face of the session transport. POST carries JSON-RPC
// exchanges; DELETE terminates a session. Transport faults (malformed body,
// missing or unknown session) are answered here and never reach the tool
// dispatcher.
type Handler struct {
	registry  *Registry
	tools     ToolDispatcher
	resources ResourceProvider
	info      Info
	logger    *slog.Logger
}

// NewHandler creates the transport handler.
func NewHandler(registry *Registry, tools ToolDispatcher, resources ResourceProvider, info Info, log *slog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		tools:     tools,
		resources: resources,
		info:      info,
		logger:    log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePost routes one JSON-RPC exchange to its session. First contact
// carries no session header and must be an initialize request; the minted
// token is echoed back in the response header.
func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, NewError(nil, CodeParseError, "malformed JSON-RPC request"))
		return
	}
	if req.JSONRPC != JSONRPCVersion || req.Method == "" {
		writeResponse(w, http.StatusBadRequest, NewError(req.ID, CodeInvalidRequest, "invalid JSON-RPC request"))
		return
	}

	sid := r.Header.Get(SessionHeader)
	if sid == "" {
		h.handleInitialize(w, r, &req)
		return
	}

	sess, err := h.registry.Resolve(sid)
	if err != nil {
		// Unknown token on a regular request is a client-correctable bad
		// request; the caller re-establishes a session rather than having
		// one silently created.
		writeResponse(w, http.StatusBadRequest, NewError(req.ID, CodeInvalidRequest, "session not found"))
		return
	}

	resp := h.dispatch(r.Context(), sess, &req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeResponse(w, http.StatusOK, resp)
}

// handleInitialize performs first-contact session setup. Only an initialize
// request may arrive without a session token.
func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request, req *Request) {
	if req.Method != "initialize" {
		writeResponse(w, http.StatusBadRequest, NewError(req.ID, CodeInvalidRequest, "missing session id"))
		return
	}

	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeResponse(w, http.StatusBadRequest, NewError(req.ID, CodeInvalidParams, "invalid initialize params"))
			return
		}
	}

	sess, err := h.registry.Resolve("")
	if err != nil {
		writeResponse(w, http.StatusInternalServerError, NewError(req.ID, CodeInternalError, "session setup failed"))
		return
	}
	if err := sess.Activate(params.ClientInfo); err != nil {
		writeResponse(w, http.StatusInternalServerError, NewError(req.ID, CodeInternalError, "session setup failed"))
		return
	}

	logger.FromContext(r.Context()).InfoContext(r.Context(), "session initialized",
		slog.String("session_id", sess.ID()),
		slog.String("client", params.ClientInfo.Name),
	)

	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: h.info,
	}

	w.Header().Set(SessionHeader, sess.ID())
	writeResponse(w, http.StatusOK, NewResult(req.ID, result))
}

// handleDelete is the termination verb. Closing an unknown token is a
// not-found outcome, never a fault; the losing side of a concurrent close
// observes the same.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get(SessionHeader)
	if sid == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	sess, err := h.registry.Remove(sid)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "session removal failed", http.StatusInternalServerError)
		return
	}
	// The registry entry is already gone; Close only flips the terminal
	// state for anyone still holding the pointer.
	_ = sess.Close()

	logger.FromContext(r.Context()).InfoContext(r.Context(), "session closed",
		slog.String("session_id", sid),
	)

	w.WriteHeader(http.StatusNoContent)
}

// dispatch runs one request against an established session. Returning nil
// means the request was a notification and gets a 202 with no body.
func (h *Handler) dispatch(ctx context.Context, sess *Session, req *Request) *Response {
	if err := sess.CheckActive(); err != nil {
		return NewError(req.ID, CodeInvalidRequest, "session not initialized")
	}

	// Notifications carry no reply. The initialized signal is the only one
	// with meaning today; others are accepted and dropped.
	if req.IsNotification() {
		return nil
	}

	switch req.Method {
	case "initialize":
		return NewError(req.ID, CodeInvalidRequest, "session already initialized")

	case "ping":
		return NewResult(req.ID, struct{}{})

	case "tools/list":
		return NewResult(req.ID, ListToolsResult{Tools: h.tools.ListTools()})

	case "tools/call":
		var params CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			return NewError(req.ID, CodeInvalidParams, "invalid tools/call params")
		}
		result, err := h.tools.CallTool(ctx, params.Name, params.Arguments)
		if err != nil {
			return NewError(req.ID, CodeInvalidParams, err.Error())
		}
		return NewResult(req.ID, result)

	case "resources/list":
		return NewResult(req.ID, ListResourcesResult{Resources: h.resources.ListResources()})

	case "resources/read":
		var params ReadResourceParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.URI == "" {
			return NewError(req.ID, CodeInvalidParams, "invalid resources/read params")
		}
		contents, err := h.resources.ReadResource(params.URI)
		if err != nil {
			return NewError(req.ID, CodeInvalidParams, err.Error())
		}
		return NewResult(req.ID, ReadResourceResult{Contents: []ResourceContents{*contents}})

	default:
		return NewError(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func writeResponse(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(resp)
}
