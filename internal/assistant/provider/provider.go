// Package provider invokes generative-text backends for the assistant.
package provider

import "context"

// InvokeInput describes one provider call.
type InvokeInput struct {
	Model string
	Input string
}

// InvokeResult is the provider's generated text.
type InvokeResult struct {
	OutputText string
}

// Invoker calls a generative-text provider.
type Invoker interface {
	Invoke(ctx context.Context, input InvokeInput) (InvokeResult, error)
}
