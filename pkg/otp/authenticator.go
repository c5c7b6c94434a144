package otp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Type represents the OTP algorithm type.
type Type string

const (
	// TypeTOTP represents Time-based OTP (RFC 6238).
	TypeTOTP Type = "totp"
	// TypeHOTP represents Counter-based OTP (RFC 4226).
	TypeHOTP Type = "hotp"
)

// Config holds OTP authenticator configuration.
type Config struct {
	// Type specifies the OTP type (TOTP or HOTP).
	// Default: TOTP
	Type Type
	// Secret is the base32-encoded shared secret key (required).
	Secret string
	// Issuer is the name of the issuing organization (e.g., "MyApp").
	Issuer string
	// AccountName is the account identifier (e.g., "user@example.com").
	AccountName string
	// Digits specifies the number of digits in the OTP code.
	// Default: 6
	Digits uint
	// Counter specifies the initial counter value for HOTP.
	// Default: 0
	Counter uint64
	// Skew specifies the number of time periods to check before and after
	// the current time for TOTP validation (tolerance for clock skew).
	// Window(0) checks the current period only.
	// Default: 1
	Skew *uint
	// Clock supplies the current time for TOTP.
	// Default: SystemClock
	Clock Clock
	// Logger receives authentication outcomes. Secrets and codes are never
	// logged.
	// Default: no-op
	Logger *zap.Logger
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Type != "" && c.Type != TypeTOTP && c.Type != TypeHOTP {
		return fmt.Errorf("%w: type must be 'totp' or 'hotp'", ErrInvalidConfig)
	}

	if strings.TrimSpace(c.Secret) == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}

	if _, err := decodeSecret(c.Secret); err != nil {
		return fmt.Errorf("%w: secret must be valid base32: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Authenticator validates OTP codes for a single shared secret.
// It is safe for concurrent use.
type Authenticator struct {
	cfg    Config
	engine *Engine
	logger *zap.Logger
}

// NewAuthenticator creates a new OTP authenticator.
// The configuration is validated and an error is returned if invalid.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Type == "" {
		cfg.Type = TypeTOTP
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine, err := NewEngine(EngineConfig{
		Digits:      cfg.Digits,
		Discrepancy: cfg.Skew,
		Clock:       cfg.Clock,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	cfg.Digits = engine.Digits()
	cfg.Skew = Window(engine.Discrepancy())

	return &Authenticator{
		cfg:    cfg,
		engine: engine,
		logger: cfg.Logger.With(zap.String("type", string(cfg.Type)), zap.String("account", cfg.AccountName)),
	}, nil
}

// Authenticate validates an OTP code.
// For TOTP, it validates against the current time with skew tolerance.
// For HOTP, it validates against the configured counter value.
func (a *Authenticator) Authenticate(ctx context.Context, code string) error {
	if a == nil {
		return ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if a.cfg.Type == TypeTOTP {
		step := a.engine.CurrentStep()
		drift, err := a.engine.Check(a.cfg.Secret, code, a.engine.Discrepancy(), step)
		if err != nil {
			a.logger.Debug("otp authentication failed", zap.Uint64("step", step), zap.Error(err))
			return wrapInvalid(err)
		}
		a.logger.Debug("otp authentication succeeded", zap.Int64("drift", drift))
		return nil
	}

	if _, err := a.engine.Check(a.cfg.Secret, code, 0, a.cfg.Counter); err != nil {
		a.logger.Debug("otp authentication failed", zap.Uint64("counter", a.cfg.Counter), zap.Error(err))
		return wrapInvalid(err)
	}

	return nil
}

// ValidateCounter validates an HOTP code and returns the new counter value.
// This method is only valid for HOTP authenticators.
// The returned counter should be stored and used for the next validation.
func (a *Authenticator) ValidateCounter(ctx context.Context, code string, counter uint64) (uint64, error) {
	if a == nil {
		return 0, ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if a.cfg.Type != TypeHOTP {
		return 0, fmt.Errorf("%w: ValidateCounter is only valid for HOTP", ErrInvalidConfig)
	}

	if strings.TrimSpace(code) == "" {
		return 0, fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	if _, err := a.engine.Check(a.cfg.Secret, code, 0, counter); err != nil {
		a.logger.Debug("otp counter validation failed", zap.Uint64("counter", counter), zap.Error(err))
		return 0, wrapInvalid(err)
	}

	// Return incremented counter
	return counter + 1, nil
}

// Generate generates an OTP code.
// For TOTP, it generates the code for the current time.
// For HOTP, a counter value must be provided.
func (a *Authenticator) Generate(counter ...uint64) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if a.cfg.Type == TypeTOTP {
		code, err := a.engine.Code(a.cfg.Secret)
		if err != nil {
			return "", fmt.Errorf("otp: failed to generate TOTP code: %w", err)
		}
		return code, nil
	}

	// HOTP requires counter
	if len(counter) == 0 {
		return "", fmt.Errorf("otp: counter required for HOTP generation")
	}

	code, err := a.engine.GenerateCode(a.cfg.Secret, counter[0])
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate HOTP code: %w", err)
	}

	return code, nil
}

// GetProvisioningURI returns the otpauth:// URI for QR code generation.
// This URI can be encoded as a QR code and scanned by authenticator apps.
func (a *Authenticator) GetProvisioningURI() string {
	if a == nil {
		return ""
	}

	label := a.cfg.AccountName
	if a.cfg.Issuer != "" {
		label = a.cfg.Issuer + ":" + a.cfg.AccountName
	}

	if a.cfg.Type == TypeTOTP {
		uri := ProvisioningURI(label, a.cfg.Secret, a.cfg.Issuer)
		if a.cfg.Digits != DefaultDigits {
			uri += "&digits=" + strconv.FormatUint(uint64(a.cfg.Digits), 10)
		}
		return uri
	}

	v := url.Values{}
	v.Set("secret", a.cfg.Secret)
	if a.cfg.Issuer != "" {
		v.Set("issuer", a.cfg.Issuer)
	}
	v.Set("digits", strconv.FormatUint(uint64(a.cfg.Digits), 10))
	v.Set("counter", strconv.FormatUint(a.cfg.Counter, 10))
	return fmt.Sprintf("otpauth://hotp/%s?%s", url.PathEscape(label), v.Encode())
}

// wrapInvalid reports every verification failure as ErrInvalidCode while
// keeping the underlying cause reachable through errors.Is.
func wrapInvalid(err error) error {
	if err == ErrInvalidCode {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidCode, err)
}
