// Package testutil provides test doubles for the llm package.
package testutil

import (
	"context"
	"sync"

	"github.com/socialwise/caseflow/llm"
)

// MockCompleter is a thread-safe scripted completion service for testing.
// It returns the configured responses (or errors) in sequence and records
// every request it receives.
//
// Usage:
//
//	mock := &testutil.MockCompleter{
//	    Steps: []testutil.Step{
//	        {Err: llm.NewRateLimitError(errors.New("429"))},
//	        {Response: &llm.Response{Content: `{"summary":"ok"}`}},
//	    },
//	}
type MockCompleter struct {
	mu       sync.Mutex
	Steps    []Step
	requests []llm.Request
	index    int
}

// Step is one scripted reply. Err takes precedence over Response.
type Step struct {
	Response *llm.Response
	Err      error
}

// Complete implements llm.Completer.
func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.index < len(m.Steps) {
		step := m.Steps[m.index]
		m.index++
		if step.Err != nil {
			return nil, step.Err
		}
		if step.Response != nil {
			return step.Response, nil
		}
	}

	// Default reply when the script is exhausted.
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// CallCount returns the number of Complete calls received.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockCompleter) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears recorded requests and rewinds the script.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.index = 0
}
