package otp

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jeremyhahn/go-totp/pkg/base32"
)

const (
	// DefaultDigits is the code length used when none is configured.
	DefaultDigits = 6
	// DefaultPeriod is the TOTP time step in seconds.
	DefaultPeriod = 30
	// DefaultDiscrepancy is the number of time steps tolerated on either side
	// of the current one.
	DefaultDiscrepancy = 1
	// MaxDiscrepancy bounds the verification window to 2*MaxDiscrepancy+1
	// steps.
	MaxDiscrepancy = 10
)

// Window returns a pointer to n for EngineConfig.Discrepancy and
// Config.Skew, where nil selects the default and 0 is an exact-step window.
func Window(n uint) *uint {
	return &n
}

// EngineConfig holds TOTP engine configuration. Zero fields take the
// package defaults.
type EngineConfig struct {
	// Digits is the code length, 1 through MaxDigits.
	// Default: 6
	Digits uint
	// Period is the time step in seconds. Only DefaultPeriod is supported.
	// Default: 30
	Period uint
	// Discrepancy is the number of steps before and after the current one
	// that Verify accepts, at most MaxDiscrepancy. Window(0) accepts the
	// current step only.
	// Default: 1
	Discrepancy *uint
	// Clock supplies the current time.
	// Default: SystemClock
	Clock Clock
	// Logger receives debug output for rejected codes. Secrets and codes are
	// never logged.
	// Default: no-op
	Logger *zap.Logger
}

func (c EngineConfig) validate() error {
	if c.Digits > MaxDigits {
		return fmt.Errorf("%w: digits must be between 1 and %d", ErrInvalidConfig, MaxDigits)
	}
	if c.Period != 0 && c.Period != DefaultPeriod {
		return fmt.Errorf("%w: period must be %d seconds", ErrInvalidConfig, DefaultPeriod)
	}
	if c.Discrepancy != nil && *c.Discrepancy > MaxDiscrepancy {
		return fmt.Errorf("%w: discrepancy must be at most %d", ErrInvalidConfig, MaxDiscrepancy)
	}
	return nil
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.Digits == 0 {
		c.Digits = DefaultDigits
	}
	if c.Period == 0 {
		c.Period = DefaultPeriod
	}
	if c.Discrepancy == nil {
		c.Discrepancy = Window(DefaultDiscrepancy)
	} else {
		c.Discrepancy = Window(*c.Discrepancy)
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Engine generates and verifies TOTP codes. It is immutable once built and
// safe for concurrent use.
type Engine struct {
	cfg EngineConfig
}

// NewEngine creates a TOTP engine from cfg.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg.withDefaults()}, nil
}

// DefaultEngine returns a 6-digit, 30-second engine on the system clock.
func DefaultEngine() *Engine {
	return &Engine{cfg: EngineConfig{}.withDefaults()}
}

// WithDigits returns a copy of e producing codes of n digits.
func (e *Engine) WithDigits(n uint) (*Engine, error) {
	cfg := e.cfg
	cfg.Digits = n
	return NewEngine(cfg)
}

// Digits returns the configured code length.
func (e *Engine) Digits() uint {
	return e.cfg.Digits
}

// Discrepancy returns the configured verification window half-width.
func (e *Engine) Discrepancy() uint {
	return *e.cfg.Discrepancy
}

// TimeStep returns the step counter for t. Times before the Unix epoch map
// to step 0.
func (e *Engine) TimeStep(t time.Time) uint64 {
	unix := t.Unix()
	if unix < 0 {
		return 0
	}
	return uint64(unix) / uint64(e.cfg.Period)
}

// CurrentStep returns the step counter for the engine clock.
func (e *Engine) CurrentStep() uint64 {
	return e.TimeStep(e.cfg.Clock.Now())
}

// GenerateCode returns the code for secret at the given time step.
func (e *Engine) GenerateCode(secret string, step uint64) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return HOTP(key, step, e.cfg.Digits), nil
}

// Code returns the code for secret at the current time step.
func (e *Engine) Code(secret string) (string, error) {
	return e.GenerateCode(secret, e.CurrentStep())
}

// Verify reports whether candidate matches secret within the configured
// discrepancy of the current time step. Any malformed input fails closed.
func (e *Engine) Verify(secret, candidate string) bool {
	return e.VerifyAt(secret, candidate, e.Discrepancy(), e.CurrentStep())
}

// VerifyAt reports whether candidate matches secret at any step in
// [step-discrepancy, step+discrepancy].
func (e *Engine) VerifyAt(secret, candidate string, discrepancy uint, step uint64) bool {
	drift, err := e.Check(secret, candidate, discrepancy, step)
	if err != nil {
		e.cfg.Logger.Debug("totp code rejected",
			zap.Uint64("step", step),
			zap.Uint("discrepancy", discrepancy),
			zap.Error(err))
		return false
	}
	if drift != 0 {
		e.cfg.Logger.Debug("totp code accepted with drift",
			zap.Uint64("step", step),
			zap.Int64("drift", drift))
	}
	return true
}

// Check is the error-returning form of VerifyAt. On success it returns the
// drift, the matched step minus step. Steps are tried in ascending order and
// the whole window is always computed; the earliest match wins. Steps that
// would fall below zero are skipped. A discrepancy above MaxDiscrepancy is
// rejected with ErrInvalidConfig.
func (e *Engine) Check(secret, candidate string, discrepancy uint, step uint64) (int64, error) {
	if discrepancy > MaxDiscrepancy {
		return 0, fmt.Errorf("%w: discrepancy %d exceeds %d", ErrInvalidConfig, discrepancy, MaxDiscrepancy)
	}

	if len(candidate) != int(e.cfg.Digits) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrInvalidCandidateLength, len(candidate), e.cfg.Digits)
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return 0, err
	}

	d := uint64(discrepancy)
	first := step - min(step, d)
	last := step + d
	if last < step {
		last = math.MaxUint64
	}

	matched := false
	var drift int64
	for s := first; ; s++ {
		ok := timingSafeEqualString(HOTP(key, s, e.cfg.Digits), candidate)
		if ok && !matched {
			matched = true
			drift = int64(s - step)
		}
		if s == last {
			break
		}
	}

	if !matched {
		return 0, ErrInvalidCode
	}
	return drift, nil
}

func decodeSecret(secret string) ([]byte, error) {
	key, err := base32.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	return key, nil
}
