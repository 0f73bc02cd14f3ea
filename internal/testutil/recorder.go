package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/omicsworks/gutmetrics/internal/registry"
)

// RecorderManifest is the HCL manifest matching RecorderModule, for use in
// harness file maps.
const RecorderManifest = `
runner "recorder" {
  lifecycle {
    on_run = "OnRunRecorder"
  }

  input "id" {
    type = string
  }

  input "fail" {
    type    = bool
    default = false
  }

  input "sleep_ms" {
    type    = number
    default = 0
  }
}
`

// ExecutionRecord captures when a recorder stage started and finished.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// RecorderModule registers the 'recorder' runner, which records the order
// and timing of stage executions and can be told to fail.
type RecorderModule struct {
	mu      sync.Mutex
	order   []string
	records map[string]*ExecutionRecord
}

// NewRecorderModule creates a recorder with empty state.
func NewRecorderModule() *RecorderModule {
	return &RecorderModule{records: make(map[string]*ExecutionRecord)}
}

// Order returns the recorded execution order.
func (m *RecorderModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Record returns the timing record for an id, if it ran.
func (m *RecorderModule) Record(id string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

// Register registers the recorder runner's Go handler.
func (m *RecorderModule) Register(r *registry.Registry) {
	type recorderInput struct {
		ID      string  `gm:"id"`
		Fail    bool    `gm:"fail"`
		SleepMs float64 `gm:"sleep_ms"`
	}

	r.RegisterRunner("OnRunRecorder", &registry.RegisteredRunner{
		NewInput:  func() any { return new(recorderInput) },
		InputType: reflect.TypeOf(recorderInput{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn: func(_ context.Context, _ any, inputRaw any) (any, error) {
			input := inputRaw.(*recorderInput)

			start := time.Now()
			if input.SleepMs > 0 {
				time.Sleep(time.Duration(input.SleepMs) * time.Millisecond)
			}

			m.mu.Lock()
			m.order = append(m.order, input.ID)
			m.records[input.ID] = &ExecutionRecord{Start: start, End: time.Now()}
			m.mu.Unlock()

			if input.Fail {
				return nil, fmt.Errorf("recorder stage %q failed on request", input.ID)
			}
			return nil, nil
		},
	})
}
