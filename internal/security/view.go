package security

import (
	"context"

	"github.com/oshokin/door-alarm/internal/domain/alarm"
)

// View presents the display state. Poll is called once per tick so views
// can animate.
type View interface {
	SetState(ctx context.Context, state alarm.Display)
	Poll(ctx context.Context)
}

// Views fans a state out to several views in order.
type Views []View

// SetState implements View.
func (v Views) SetState(ctx context.Context, state alarm.Display) {
	for _, view := range v {
		view.SetState(ctx, state)
	}
}

// Poll implements View.
func (v Views) Poll(ctx context.Context) {
	for _, view := range v {
		view.Poll(ctx)
	}
}
