package testutil

import (
	"context"

	"github.com/kbukum/apiwatch/component"
)

// TestComponent extends component.Component with a reset between test cases.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}
