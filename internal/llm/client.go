package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/complyforge/backend/internal/metrics"
	"github.com/complyforge/backend/pkg/circuitbreaker"
	"github.com/complyforge/backend/pkg/logger"
	"github.com/complyforge/backend/pkg/retry"
)

// ChatCompleter is the slice of the OpenAI client the invoker needs.
// *openai.Client satisfies it; tests substitute a scripted fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolSchema declares the structured output contract for one call. The
// reasoning service is forced to answer through this tool, never with
// free text.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Request is one structured-output reasoning call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
	Tool        ToolSchema
}

// ReasoningError is returned once the retry budget is exhausted.
type ReasoningError struct {
	Attempts int
	Err      error
}

func (e *ReasoningError) Error() string {
	return fmt.Sprintf("reasoning call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ReasoningError) Unwrap() error { return e.Err }

type Client struct {
	completer   ChatCompleter
	model       string
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, maxRetries, timeoutSec int) *Client {
	if maxRetries == 0 {
		maxRetries = 3
	}
	if timeoutSec == 0 {
		timeoutSec = 120
	}

	cb := circuitbreaker.NewCircuitBreaker("reasoning", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	// Backoff 1s, 2s, 4s; no jitter so the wait sequence is predictable.
	retryConfig := retry.Config{
		MaxAttempts:  maxRetries,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Logger:       logger.GetLogger(),
	}

	logger.Info("Reasoning client initialized", zap.String("model", model))

	return &Client{
		completer:   openai.NewClient(apiKey),
		model:       model,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// NewClientWith builds a client around an arbitrary completer and retry
// configuration. Used by tests.
func NewClientWith(completer ChatCompleter, model string, retryConfig retry.Config) *Client {
	return &Client{
		completer: completer,
		model:     model,
		timeout:   time.Minute,
		cb: circuitbreaker.NewCircuitBreaker("reasoning", circuitbreaker.Config{
			FailureThreshold: 1000,
		}),
		retryConfig: retryConfig,
	}
}

// Invoke makes one structured-output reasoning call with bounded retry.
// A transport error, a response without a tool-call payload, or tool-call
// arguments that are not valid JSON all count as retryable failures. After
// the last attempt the error is wrapped in a ReasoningError carrying the
// attempt count and last cause. Retried attempts are independent billed
// calls; there is no idempotency key.
func (c *Client) Invoke(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result json.RawMessage
	attempts := 0

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			attempts++
			if attempts > 1 {
				metrics.LLMRetries.Inc()
			}
			payload, err := c.attempt(ctx, req)
			if err != nil {
				return err
			}
			result = payload
			return nil
		})
	})

	if err != nil {
		// The breaker can reject before any attempt runs; only an error
		// from a real attempt carries an attempt count.
		if attempts == 0 {
			return nil, err
		}
		return nil, &ReasoningError{Attempts: attempts, Err: err}
	}

	return result, nil
}

func (c *Client) attempt(ctx context.Context, req Request) (json.RawMessage, error) {
	resp, err := c.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionDefinition{
					Name:        req.Tool.Name,
					Description: req.Tool.Description,
					Parameters:  req.Tool.Parameters,
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: req.Tool.Name},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion: %w", err)
	}

	// Retried attempts are billed independently, so usage is counted per
	// call rather than per successful extraction.
	metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	logger.Debug("Reasoning completion generated",
		zap.String("tool", req.Tool.Name),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name != req.Tool.Name {
			continue
		}
		args := json.RawMessage(call.Function.Arguments)
		if !json.Valid(args) {
			return nil, fmt.Errorf("tool %s returned malformed JSON arguments", req.Tool.Name)
		}
		return args, nil
	}

	return nil, fmt.Errorf("no structured output found in response for tool %s", req.Tool.Name)
}
