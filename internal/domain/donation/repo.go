package donation

import (
	"context"
	"time"
)

type Repository interface {
	// Record writes both cooldown timestamps in one conditional statement.
	// It reports false without error when the cooldown is still active.
	Record(ctx context.Context, donorID string, at, cooldownEnd time.Time) (bool, error)
	// Cooldown returns the donor's current cooldown timestamps.
	Cooldown(ctx context.Context, donorID string) (last, end *time.Time, err error)
}
