// Package loader manages the one-time bootstrap of the external map
// rendering provider.
//
// The provider's runtime is injected at most once per process no matter how
// many map sessions mount. The loader is an explicit injectable service, not
// a module-level global: every session receives it via constructor and
// subscribes for the load outcome.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"permitmap/internal/mapview/provider"
)

// State is the loader's lifecycle state.
type State string

const (
	StateNotStarted State = "not_started"
	StateLoading    State = "loading"
	StateLoaded     State = "loaded"
	StateFailed     State = "failed"
)

// Failure modes surfaced to subscribers.
var (
	// ErrMissingAPIKey: the provider credential is absent from configuration.
	// Reported as a failed load, never a crash.
	ErrMissingAPIKey = errors.New("map provider API key is not configured")

	// ErrNotInitialized: the bootstrap completed without error but the
	// provider did not expose its expected surface.
	ErrNotInitialized = errors.New("map provider loaded but did not initialize its surface")

	// ErrLoadTimeout: the bootstrap did not complete within the bound.
	ErrLoadTimeout = errors.New("map provider load timed out")
)

// Result is the single outcome every subscriber receives.
type Result struct {
	Provider provider.Provider
	Err      error
}

// Bootstrapper performs the actual provider injection (in the original
// deployment, a script tag keyed by the API credential).
type Bootstrapper interface {
	Bootstrap(ctx context.Context, apiKey string) (provider.Provider, error)
}

// BootstrapperFunc adapts a function to the Bootstrapper interface.
type BootstrapperFunc func(ctx context.Context, apiKey string) (provider.Provider, error)

func (f BootstrapperFunc) Bootstrap(ctx context.Context, apiKey string) (provider.Provider, error) {
	return f(ctx, apiKey)
}

// Loader ensures the provider is bootstrapped exactly once and fans the
// outcome out to every subscriber exactly once.
type Loader struct {
	boot    Bootstrapper
	apiKey  string
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	provider provider.Provider
	err      error
	nextSub  int
	subs     map[int]chan Result
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds the bootstrap. Zero means wait indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a loader. The bootstrap does not start until the first
// EnsureLoaded call.
func New(boot Bootstrapper, apiKey string, opts ...Option) *Loader {
	l := &Loader{
		boot:   boot,
		apiKey: apiKey,
		logger: slog.Default(),
		state:  StateNotStarted,
		subs:   make(map[int]chan Result),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure reason once the loader is in StateFailed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// EnsureLoaded subscribes the caller for the load outcome, triggering the
// bootstrap if no caller has claimed it yet. The returned channel delivers
// exactly one Result; release the subscription with Unsubscribe.
func (l *Loader) EnsureLoaded() (int, <-chan Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ch := l.subscribeLocked()

	switch l.state {
	case StateNotStarted:
		// Claim the load before releasing the lock so a re-entrant caller
		// cannot trigger a second bootstrap.
		l.state = StateLoading
		if l.apiKey == "" {
			l.resolveLocked(nil, ErrMissingAPIKey)
			return id, ch
		}
		go l.run()
	case StateLoaded, StateFailed:
		// Already resolved; subscribeLocked delivered immediately.
	}
	return id, ch
}

// Subscribe attaches a listener without triggering the bootstrap.
func (l *Loader) Subscribe() (int, <-chan Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subscribeLocked()
}

// Unsubscribe removes a listener. Other listeners and the load state are
// unaffected; unknown ids are ignored.
func (l *Loader) Unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, id)
}

// AuthFailure routes a provider-reported authentication failure into the
// failed-notification path. The first resolution wins; a late auth failure
// after a successful load is logged and dropped.
func (l *Loader) AuthFailure(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateLoaded || l.state == StateFailed {
		l.logger.Warn("provider auth failure reported after load resolved",
			"state", string(l.state),
			"reason", reason,
		)
		return
	}
	if l.state == StateNotStarted {
		l.state = StateLoading
	}
	l.resolveLocked(nil, fmt.Errorf("map provider authentication failed: %s", reason))
}

func (l *Loader) subscribeLocked() (int, <-chan Result) {
	id := l.nextSub
	l.nextSub++

	ch := make(chan Result, 1)
	if l.state == StateLoaded || l.state == StateFailed {
		ch <- Result{Provider: l.provider, Err: l.err}
		return id, ch
	}
	l.subs[id] = ch
	return id, ch
}

func (l *Loader) run() {
	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	p, err := l.boot.Bootstrap(ctx, l.apiKey)
	if err == nil && p == nil {
		err = ErrNotInitialized
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = ErrLoadTimeout
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateLoading {
		// An auth failure resolved the load while we were bootstrapping.
		return
	}
	if err != nil {
		l.resolveLocked(nil, err)
		return
	}
	l.resolveLocked(p, nil)
}

// resolveLocked transitions to the terminal state and notifies every
// subscriber exactly once. Callers must hold l.mu.
func (l *Loader) resolveLocked(p provider.Provider, err error) {
	if err != nil {
		l.state = StateFailed
		l.err = err
		l.logger.Error("map provider load failed", "error", err.Error())
	} else {
		l.state = StateLoaded
		l.provider = p
		l.logger.Info("map provider loaded")
	}

	result := Result{Provider: l.provider, Err: l.err}
	for id, ch := range l.subs {
		ch <- result
		delete(l.subs, id)
	}
}
