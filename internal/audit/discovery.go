package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appaudit/internal/mgmt"
)

// ManagementClient is the slice of the management client the audit uses.
type ManagementClient interface {
	Login(ctx context.Context) error
	GetApplication(ctx context.Context, id string) (mgmt.Application, error)
	ListApplications(ctx context.Context, params mgmt.ListParams) (mgmt.ApplicationPage, error)
}

// DiscoveryParams bound a filtered application listing.
type DiscoveryParams struct {
	Filter   string
	PageSize int
	// Delay spaces consecutive emissions to bound the request rate
	// against the management service.
	Delay time.Duration
	// Timeout bounds the entire listing. When it fires the stream ends
	// with ErrDiscoveryTimeout; emissions already made stand.
	Timeout time.Duration
}

// sleepFunc pauses between emissions. Injectable for tests.
type sleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext sleeps for d or until the context ends.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// discover produces the throttled, time-bounded application stream in
// the service's natural listing order. The channel closes when the
// listing ends; the returned func reports the terminal error, if any,
// and must only be called after the channel is closed.
func discover(ctx context.Context, client ManagementClient, params DiscoveryParams, sleep sleepFunc) (<-chan mgmt.Application, func() error) {
	if sleep == nil {
		sleep = sleepContext
	}
	out := make(chan mgmt.Application)
	var terminal error
	go func() {
		defer close(out)
		terminal = discoverPages(ctx, client, params, sleep, out)
	}()
	return out, func() error { return terminal }
}

// discoverPages walks listing pages and emits applications with the
// configured inter-emission delay.
func discoverPages(ctx context.Context, client ManagementClient, params DiscoveryParams, sleep sleepFunc, out chan<- mgmt.Application) error {
	pageNum := 1
	emitted := 0
	for {
		page, err := client.ListApplications(ctx, mgmt.ListParams{
			Query: params.Filter,
			Page:  pageNum,
			Size:  params.PageSize,
		})
		if err != nil {
			return terminalError(ctx, params, fmt.Errorf("discover applications: %w", err))
		}
		for _, app := range page.Data {
			if emitted > 0 && params.Delay > 0 {
				if err := sleep(ctx, params.Delay); err != nil {
					return terminalError(ctx, params, err)
				}
			}
			select {
			case out <- app:
				emitted++
			case <-ctx.Done():
				return terminalError(ctx, params, ctx.Err())
			}
		}
		if len(page.Data) == 0 || pageNum >= page.Page.TotalPages {
			return nil
		}
		pageNum++
	}
}

// terminalError maps a discovery abort to the error taxonomy: deadline
// expiry becomes ErrDiscoveryTimeout, everything else passes through.
func terminalError(ctx context.Context, params DiscoveryParams, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: listing did not complete within %s", ErrDiscoveryTimeout, params.Timeout)
	}
	return err
}
