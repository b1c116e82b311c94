package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/zoobzio/capitan"

	"github.com/boshu2/becca/internal/transition"
)

var (
	eventMu        sync.Mutex
	eventListeners []*capitan.Listener
)

// startEventLog prints model events to w until stopEventLog is called.
func startEventLog(w io.Writer) {
	eventMu.Lock()
	defer eventMu.Unlock()
	if len(eventListeners) > 0 {
		return
	}

	var writeMu sync.Mutex
	logf := func(format string, args ...interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		//nolint:errcheck // best-effort diagnostics
		fmt.Fprintf(w, format, args...)
	}

	eventListeners = append(eventListeners,
		capitan.Hook(transition.ModelCreated, func(_ context.Context, e *capitan.Event) {
			name, _ := transition.FieldModelName.From(e)
			id, _ := transition.FieldModelID.From(e)
			capacity, _ := transition.FieldCapacity.From(e)
			logf("[model] %s created id=%s capacity=%d\n", name, id, capacity)
		}),
		capitan.Hook(transition.ModelUpdated, func(_ context.Context, e *capitan.Event) {
			name, _ := transition.FieldModelName.From(e)
			step, _ := transition.FieldTimeStep.From(e)
			reward, _ := transition.FieldReward.From(e)
			active, _ := transition.FieldActiveFeatures.From(e)
			logf("[model] %s step=%d reward=%.2f active=%d\n", name, step, reward, active)
		}),
		capitan.Hook(transition.GoalSelected, func(_ context.Context, e *capitan.Event) {
			name, _ := transition.FieldModelName.From(e)
			feature, _ := transition.FieldGoalFeature.From(e)
			value, _ := transition.FieldGoalValue.From(e)
			logf("[goal] %s feature=%d value=%.4f\n", name, feature, value)
		}),
		capitan.Hook(transition.CallRejected, func(_ context.Context, e *capitan.Event) {
			name, _ := transition.FieldModelName.From(e)
			op, _ := transition.FieldOperation.From(e)
			err, _ := transition.FieldError.From(e)
			logf("[rejected] %s %s: %v\n", name, op, err)
		}),
	)
}

func stopEventLog() {
	eventMu.Lock()
	defer eventMu.Unlock()
	for _, l := range eventListeners {
		l.Close()
	}
	eventListeners = nil
}
