// =============================================================================
// Sales Summary Report - Connection Resolver
// =============================================================================
//
// This package turns a site id into a live database handle.
//
// RESOLUTION:
//   - With a custom endpoint, exactly that endpoint is dialed.
//   - Otherwise the candidate endpoints are derived from the site id and the
//     routing policy (see Endpoints) and all of them are dialed at once.
//     The first candidate that accepts a connection wins; handles opened by
//     the losers are closed as they arrive.
//
// Every dial runs under its own timeout. There is no retry: a candidate that
// fails is not attempted again within the same call.
//
// =============================================================================

package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/sirupsen/logrus"
)

// Dialer opens a connection to one endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, creds types.Credentials) (types.Conn, error)
}

// Connection is a resolved handle together with the endpoint that accepted it.
type Connection struct {
	types.Conn
	Endpoint string
}

// Resolver resolves site ids to connections.
type Resolver struct {
	dialer         Dialer
	policies       map[string][]string
	connectTimeout time.Duration
	logger         logrus.FieldLogger
}

// New creates a resolver. A zero connectTimeout disables the per-attempt
// timeout.
func New(dialer Dialer, policies map[string][]string, connectTimeout time.Duration, logger logrus.FieldLogger) *Resolver {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		dialer:         dialer,
		policies:       policies,
		connectTimeout: connectTimeout,
		logger:         logger,
	}
}

// Candidates returns the endpoints Resolve would dial for a site.
func (r *Resolver) Candidates(siteID string, params types.JobParams) ([]string, error) {
	if params.CustomEndpoint != "" {
		return []string{params.CustomEndpoint}, nil
	}
	return Endpoints(siteID, params.RoutingPolicy, r.policies)
}

// Resolve returns a connection for the site. The caller owns the returned
// connection and must close it.
//
// Errors:
//   - *types.ErrFormat when the site id cannot be turned into an endpoint
//   - *types.ErrNotReachable when there are no candidates or all of them failed
func (r *Resolver) Resolve(ctx context.Context, siteID string, params types.JobParams) (*Connection, error) {
	endpoints, err := r.Candidates(siteID, params)
	if err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		r.logger.WithFields(logrus.Fields{
			"site":   siteID,
			"policy": params.RoutingPolicy,
		}).Warn("no candidate endpoints for routing policy")
		return nil, &types.ErrNotReachable{SiteID: siteID}
	}

	return r.race(ctx, siteID, endpoints, params.Credentials)
}

type attempt struct {
	endpoint string
	conn     types.Conn
	err      error
}

// race dials every endpoint concurrently and returns the first success.
func (r *Resolver) race(ctx context.Context, siteID string, endpoints []string, creds types.Credentials) (*Connection, error) {
	results := make(chan attempt, len(endpoints))

	for _, endpoint := range endpoints {
		go func() {
			dialCtx, cancel := r.attemptContext(ctx)
			defer cancel()

			start := time.Now()
			conn, err := r.dialer.Dial(dialCtx, endpoint, creds)
			r.logger.WithFields(logrus.Fields{
				"site":     siteID,
				"endpoint": endpoint,
				"elapsed":  time.Since(start).Round(time.Millisecond),
				"ok":       err == nil,
			}).Debug("dial attempt finished")

			results <- attempt{endpoint: endpoint, conn: conn, err: err}
		}()
	}

	var errs []error
	for pending := len(endpoints); pending > 0; pending-- {
		a := <-results
		if a.err == nil {
			go closeLateWinners(results, pending-1)
			return &Connection{Conn: a.conn, Endpoint: a.endpoint}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.endpoint, a.err))
	}

	return nil, &types.ErrNotReachable{
		SiteID:    siteID,
		Endpoints: endpoints,
		Err:       errors.Join(errs...),
	}
}

func (r *Resolver) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.connectTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.connectTimeout)
}

// closeLateWinners receives the remaining attempts of a decided race and
// closes any connection they opened.
func closeLateWinners(results <-chan attempt, remaining int) {
	for ; remaining > 0; remaining-- {
		if a := <-results; a.err == nil && a.conn != nil {
			_ = a.conn.Close()
		}
	}
}
