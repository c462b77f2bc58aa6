package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrBackendPanic is returned when a backend call panicked.
	ErrBackendPanic = errors.New("backend panicked")
	// ErrNotInitialized is returned for calls made before Init.
	ErrNotInitialized = errors.New("backend is not initialized")
)

// Handle owns a witness calculator and a proving backend. Init runs their
// setup until it succeeds once. Every call is guarded so a panicking backend
// surfaces as an error. A Handle is safe for concurrent use and meant to be shared by
// provers and verifiers.
type Handle struct {
	witness WitnessCalculator
	proving ProvingBackend
	logger  zerolog.Logger

	mu          sync.Mutex
	initialized atomic.Bool
}

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithLogger sets the logger used for backend diagnostics.
func WithLogger(l zerolog.Logger) HandleOption {
	return func(h *Handle) {
		h.logger = l
	}
}

// NewHandle creates a handle. The witness calculator may be nil for
// verify-only handles.
func NewHandle(w WitnessCalculator, p ProvingBackend, opts ...HandleOption) (*Handle, error) {
	if p == nil {
		return nil, errors.New("proving backend is required")
	}
	h := &Handle{
		witness: w,
		proving: p,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Init runs the one-time backend setup. Concurrent callers wait for the
// running attempt. Only success is kept: a failed attempt, for example one
// whose context was cancelled, is retried by the next caller.
func (h *Handle) Init(ctx context.Context, module []byte) error {
	if h.initialized.Load() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized.Load() {
		return nil
	}

	if err := h.init(ctx, module); err != nil {
		h.logger.Error().Err(err).Msg("backend initialization failed")
		return err
	}
	h.initialized.Store(true)
	return nil
}

func (h *Handle) init(ctx context.Context, module []byte) (err error) {
	defer recoverPanic(&err, "init")

	seen := map[Initializer]bool{}
	for _, c := range []interface{}{h.witness, h.proving} {
		in, ok := c.(Initializer)
		if !ok || seen[in] {
			continue
		}
		seen[in] = true
		if err := in.Init(ctx, module); err != nil {
			return err
		}
	}
	h.logger.Debug().Int("module_size", len(module)).Msg("backend initialized")
	return nil
}

// Initialized reports whether Init succeeded.
func (h *Handle) Initialized() bool {
	return h.initialized.Load()
}

// CanProve reports whether the handle has a witness calculator.
func (h *Handle) CanProve() bool {
	return h.witness != nil
}

// CalculateWitness runs the witness calculator.
func (h *Handle) CalculateWitness(ctx context.Context, program []byte, inputs WitnessInputs) (wtns []byte, err error) {
	if !h.Initialized() {
		return nil, ErrNotInitialized
	}
	if h.witness == nil {
		return nil, errors.New("handle has no witness calculator")
	}
	defer recoverPanic(&err, "witness calculation")
	return h.witness.Calculate(ctx, program, inputs)
}

// Prove runs the proving backend.
func (h *Handle) Prove(ctx context.Context, circuit, witness, publicInput []byte) (proof []byte, err error) {
	if !h.Initialized() {
		return nil, ErrNotInitialized
	}
	defer recoverPanic(&err, "prove")
	return h.proving.Prove(ctx, circuit, witness, publicInput)
}

// Verify runs the verifying backend.
func (h *Handle) Verify(ctx context.Context, circuit, proof, publicInput []byte) (ok bool, err error) {
	if !h.Initialized() {
		return false, ErrNotInitialized
	}
	defer func() {
		if err != nil {
			ok = false
		}
	}()
	defer recoverPanic(&err, "verify")
	return h.proving.Verify(ctx, circuit, proof, publicInput)
}

func recoverPanic(err *error, op string) {
	if r := recover(); r != nil {
		*err = errors.Wrap(ErrBackendPanic, fmt.Sprintf("%s: %v", op, r))
	}
}
