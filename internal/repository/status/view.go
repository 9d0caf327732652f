package status

import (
	"context"
	"time"

	domain "github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/logger"
)

// View records every display change in a Repository.
type View struct {
	repo Repository
	now  func() time.Time

	// saved is the state last written successfully.
	saved    domain.Display
	hasSaved bool
}

// NewView returns a view saving to repo.
func NewView(repo Repository) *View {
	return &View{
		repo: repo,
		now:  time.Now,
	}
}

// SetState saves a snapshot when state differs from the one on file, so
// ChangedAt keeps marking when the state was entered. Failures are logged
// and retried on the next call.
func (v *View) SetState(ctx context.Context, state domain.Display) {
	if v.hasSaved && v.saved == state {
		return
	}

	snapshot := &domain.Snapshot{
		Display:   state,
		ChangedAt: v.now(),
	}

	if err := v.repo.Save(ctx, snapshot); err != nil {
		logger.WarnKV(ctx, "Failed to save status snapshot", "state", state.String(), "error", err)

		return
	}

	v.saved, v.hasSaved = state, true
}

// Poll implements the view contract. The file only changes on SetState.
func (*View) Poll(context.Context) {}
