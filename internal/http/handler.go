package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
	"github.com/davidbz/promptc/internal/promptfn"
	"github.com/davidbz/promptc/internal/transcript"
)

// InvokeRequest is the body of the compile and call endpoints.
type InvokeRequest struct {
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// CallResponse is returned by the call endpoint.
type CallResponse struct {
	Completion *domain.Completion `json:"completion"`
	Value      json.RawMessage    `json:"value"`
}

// Handler handles HTTP requests.
type Handler struct {
	registry   domain.PromptRegistry
	dispatcher domain.Dispatcher
	defaults   domain.ChatDefaults
}

// NewHandler creates a new HTTP handler (DI constructor). A nil dispatcher
// leaves the call endpoint answering 503.
func NewHandler(registry domain.PromptRegistry, dispatcher domain.Dispatcher, defaults *domain.ChatDefaults) *Handler {
	h := &Handler{
		registry:   registry,
		dispatcher: dispatcher,
		defaults:   promptfn.DefaultChatDefaults(),
	}
	if defaults != nil {
		h.defaults = *defaults
	}
	return h
}

// Routes registers the handler's endpoints on a new router.
func (h *Handler) Routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/prompts", h.HandleList).Methods(http.MethodGet)
	v1.HandleFunc("/prompts/{name}/compile", h.HandleCompile).Methods(http.MethodPost)
	v1.HandleFunc("/prompts/{name}/call", h.HandleCall).Methods(http.MethodPost)

	return router
}

// HandleList returns the registered prompt names.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string][]string{"prompts": names})
}

// HandleCompile compiles a prompt and returns the request payload without dispatching it.
//
// Arguments are rendered into the transcript before it is split into
// messages, so string arguments holding a line-leading role marker of the
// prompt are rejected with 400 rather than opening a message of that role.
func (h *Handler) HandleCompile(w http.ResponseWriter, r *http.Request) {
	fn, prompt, ok := h.compile(w, r)
	if !ok {
		return
	}

	payload, err := prompt.Serialize()
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.FromContext(r.Context()).Info("prompt compiled",
		observability.String("prompt", fn.Name()),
		observability.Int("messages", len(prompt.Messages)))

	writeJSON(w, r, http.StatusOK, payload)
}

// HandleCall compiles a prompt, dispatches it and decodes the response field.
func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	fn, prompt, ok := h.compile(w, r)
	if !ok {
		return
	}

	ctx := observability.WithPrompt(r.Context(), fn.Name())
	completion, err := promptfn.Dispatch(ctx, h.dispatcher, domain.NewChatRequest(*prompt, h.defaults))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var value json.RawMessage
	if err := completion.DecodeField(fn.ToolName(), fn.FieldName(), &value); err != nil {
		writeError(w, r, &domain.DispatchError{Dispatcher: h.dispatcher.Name(), Err: err})
		return
	}

	observability.FromContext(ctx).Info("prompt called",
		observability.Int("total_tokens", completion.Usage.TotalTokens))

	writeJSON(w, r, http.StatusOK, CallResponse{Completion: completion, Value: value})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) compile(w http.ResponseWriter, r *http.Request) (domain.PromptFunc, *domain.PromptRequest, bool) {
	name := mux.Vars(r)["name"]

	fn, err := h.registry.Get(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}

	var body InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidRequest, err))
		return nil, nil, false
	}

	if err := checkArguments(body, fn.Roles()); err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}

	prompt, err := fn.Compile(body.Args, body.Kwargs)
	if err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}

	return fn, prompt, true
}

// checkArguments rejects request arguments that would inject role markers.
func checkArguments(body InvokeRequest, roles []string) error {
	for i, arg := range body.Args {
		if containsMarker(arg, roles) {
			return fmt.Errorf("%w: argument %d contains a role marker", domain.ErrInvalidRequest, i)
		}
	}
	for name, arg := range body.Kwargs {
		if containsMarker(arg, roles) {
			return fmt.Errorf("%w: argument %q contains a role marker", domain.ErrInvalidRequest, name)
		}
	}
	return nil
}

func containsMarker(value any, roles []string) bool {
	switch v := value.(type) {
	case string:
		return transcript.HasMarker(v, roles)
	case []any:
		for _, item := range v {
			if containsMarker(item, roles) {
				return true
			}
		}
	case map[string]any:
		for key, item := range v {
			if transcript.HasMarker(key, roles) || containsMarker(item, roles) {
				return true
			}
		}
	}
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPromptNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBinding),
		errors.Is(err, domain.ErrTemplate),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrTranscriptFormat),
		errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, promptfn.ErrNoDispatcher):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrDispatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := observability.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", observability.Error(err), observability.Int("status", status))
	} else {
		logger.Info("request rejected", observability.Error(err), observability.Int("status", status))
	}

	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
