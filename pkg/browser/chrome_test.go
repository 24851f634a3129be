package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "pinsnap/pkg/errors"
)

func TestMapErrorNil(t *testing.T) {
	if err := mapError("op", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestMapErrorTimeout(t *testing.T) {
	err := mapError("browser.screenshot", fmt.Errorf("run: %w", context.DeadlineExceeded))
	if errs.KindOf(err) != errs.KindTimeout {
		t.Errorf("expected timeout kind, got %v", errs.KindOf(err))
	}
	if !errs.IsRecoverable(err) {
		t.Error("timeouts should be recoverable")
	}
}

func TestMapErrorCanceledPassthrough(t *testing.T) {
	err := mapError("browser.navigate", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation should pass through unchanged, got %v", err)
	}
}

func TestMapErrorDetached(t *testing.T) {
	cases := []string{
		"Could not find node with given id",
		"No node with given id found",
		"element is not attached to the page document",
	}
	for _, msg := range cases {
		err := mapError("browser.scroll_into_view", errors.New(msg))
		if errs.KindOf(err) != errs.KindElementDetached {
			t.Errorf("%q: expected detached kind, got %v", msg, errs.KindOf(err))
		}
	}
}

func TestMapErrorDriver(t *testing.T) {
	err := mapError("browser.navigate", errors.New("websocket url timeout reached"))
	if errs.KindOf(err) != errs.KindDriver {
		t.Errorf("expected driver kind, got %v", errs.KindOf(err))
	}
	if !errs.IsFatal(err) {
		t.Error("driver errors should be fatal")
	}
}
