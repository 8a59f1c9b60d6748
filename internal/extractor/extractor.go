// Package extractor turns a free-text message into customer filter parameters
// with a single model call.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/llm"
	"github.com/Conversly/crm-assistant/internal/utils"
)

var (
	// ErrNoJSON means the completion held no decodable JSON object.
	ErrNoJSON = errors.New("no JSON object in model output")
	// ErrNoFilters means the JSON object had no usable filter keys.
	ErrNoFilters = errors.New("no recognised filter parameters")
	// ErrModelCall wraps any failure of the model call itself.
	ErrModelCall = errors.New("filter extraction model call failed")
)

const instructions = "You are an assistant that extracts filter parameters for a customer table. " +
	"Given a user message, return a JSON object with any of these fields if present: %s. " +
	"If a field is not mentioned, omit it. Only return the JSON object."

type Extractor struct {
	model   model.BaseChatModel
	timeout time.Duration
}

func New(m model.BaseChatModel, timeout time.Duration) *Extractor {
	return &Extractor{model: m, timeout: timeout}
}

// BuildPrompt renders the single user prompt sent to the model.
func BuildPrompt(message string) string {
	fields := strings.Join(customers.AllowedKeys, ", ")
	return fmt.Sprintf(instructions, fields) + "\nUser message: " + message + "\nJSON:"
}

// Extract returns the raw mapping found in the completion.
func (e *Extractor) Extract(ctx context.Context, message string) (map[string]any, error) {
	prompt := []*schema.Message{schema.UserMessage(BuildPrompt(message))}

	out, err := llm.Complete(ctx, e.model, prompt, e.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	raw, err := FindJSONObject(out)
	if err != nil {
		utils.Zlog.Debug("Extraction output had no JSON object", zap.String("output", out))
		return nil, err
	}
	return raw, nil
}

// ExtractFilter runs Extract and validates the result. It returns ErrNoFilters
// when nothing usable survives validation.
func (e *Extractor) ExtractFilter(ctx context.Context, message string) (customers.Filter, error) {
	raw, err := e.Extract(ctx, message)
	if err != nil {
		return customers.Filter{}, err
	}

	f := customers.Validate(raw)
	if f.Empty() {
		return customers.Filter{}, ErrNoFilters
	}
	return f, nil
}

// FindJSONObject returns the first JSON object embedded in s. Prose or code
// fences around it are ignored.
func FindJSONObject(s string) (map[string]any, error) {
	for i := strings.IndexByte(s, '{'); i >= 0; {
		var obj map[string]any
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&obj); err == nil && obj != nil {
			return obj, nil
		}

		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, ErrNoJSON
}
