package promptfn

import (
	"context"
	"errors"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

// ErrNoDispatcher indicates a request was called without a dispatcher.
var ErrNoDispatcher = errors.New("no dispatcher configured")

// Request is a compiled prompt that can still be dispatched.
type Request struct {
	domain.PromptRequest

	dispatcher domain.Dispatcher
	defaults   domain.ChatDefaults
}

// Result is the outcome of an asynchronous call.
type Result struct {
	Completion *domain.Completion
	Err        error
}

// ChatRequest merges the prompt with the sampling defaults.
func (r *Request) ChatRequest() *domain.ChatRequest {
	return domain.NewChatRequest(r.PromptRequest, r.defaults)
}

// CallAsync dispatches the request on its own goroutine. The channel yields
// exactly one Result and is then closed.
func (r *Request) CallAsync(ctx context.Context) <-chan Result {
	results := make(chan Result, 1)

	go func() {
		defer close(results)
		completion, err := Dispatch(ctx, r.dispatcher, r.ChatRequest())
		results <- Result{Completion: completion, Err: err}
	}()

	return results
}

// Call dispatches the request and waits for the completion.
func (r *Request) Call(ctx context.Context) (*domain.Completion, error) {
	result := <-r.CallAsync(ctx)
	return result.Completion, result.Err
}

// Dispatch validates req and sends it through d. Transport failures are
// returned as *domain.DispatchError.
func Dispatch(ctx context.Context, d domain.Dispatcher, req *domain.ChatRequest) (*domain.Completion, error) {
	if d == nil {
		return nil, ErrNoDispatcher
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = observability.WithModel(ctx, req.Model)
	logger := observability.FromContext(ctx)
	logger.Debug("dispatching prompt request",
		observability.String("dispatcher", d.Name()),
		observability.Int("messages", len(req.Messages)))

	completion, err := d.Dispatch(ctx, req)
	if err == nil && completion == nil {
		err = errors.New("dispatcher returned no completion")
	}
	if err != nil {
		logger.Error("dispatch failed", observability.Error(err))
		return nil, &domain.DispatchError{Dispatcher: d.Name(), Err: err}
	}

	logger.Debug("dispatch succeeded",
		observability.Int("prompt_tokens", completion.Usage.PromptTokens),
		observability.Int("completion_tokens", completion.Usage.CompletionTokens))

	return completion, nil
}
