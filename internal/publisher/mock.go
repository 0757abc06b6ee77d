package publisher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// Mock appends tweets to a local file instead of calling the API.
type Mock struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewMock(path string) *Mock {
	return &Mock{path: path, now: time.Now}
}

func (m *Mock) Publish(_ context.Context, text string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Result{Details: err.Error()}, &PublishError{Err: err}
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "[%s] %s\n", m.now().Format(time.DateTime), text); err != nil {
		return Result{Details: err.Error()}, &PublishError{Err: err}
	}

	return Result{Success: true, StatusCode: http.StatusCreated, Details: "Tweet posted (mock mode): " + text}, nil
}
