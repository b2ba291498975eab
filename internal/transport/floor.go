package transport

import (
	"context"
	"time"
)

// withFloor runs call and returns only once both call has settled and floor
// has elapsed. A call slower than floor is not delayed any further; a
// cancelled ctx cuts the remaining wait short.
func withFloor[T any](ctx context.Context, floor time.Duration, call func(context.Context) (T, error)) (T, error) {
	if floor <= 0 {
		return call(ctx)
	}

	timer := time.NewTimer(floor)
	defer timer.Stop()

	result, err := call(ctx)

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return result, err
}
