package llm

import (
	"context"
	"sync/atomic"
)

// MockClient permite tests sin llamar a un LLM real. Calls cuenta invocaciones.
type MockClient struct {
	Response string
	Err      error
	Calls    atomic.Int32
}

func (m *MockClient) Generate(_ context.Context, _ string, _ string) (string, error) {
	m.Calls.Add(1)
	return m.Response, m.Err
}
