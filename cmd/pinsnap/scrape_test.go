package main

import (
	"errors"
	"testing"

	"pinsnap/pkg/models"
)

func TestQueryOutcome(t *testing.T) {
	if err := queryOutcome(&models.RunResult{State: models.StateCompleted}, nil); err != nil {
		t.Errorf("Completed run should not fail the command: %v", err)
	}
	if err := queryOutcome(&models.RunResult{State: models.StateExhausted}, nil); err != nil {
		t.Errorf("Exhausted run should not fail the command: %v", err)
	}

	// Aborted runs surface as the sentinel so Execute exits non-zero
	// after the deferred teardown has run.
	if err := queryOutcome(&models.RunResult{State: models.StateAborted}, nil); !errors.Is(err, errRunFailed) {
		t.Errorf("Aborted run should fail the command, got %v", err)
	}
	if err := queryOutcome(nil, errors.New("navigate: boom")); !errors.Is(err, errRunFailed) {
		t.Errorf("Run error should fail the command, got %v", err)
	}
}
