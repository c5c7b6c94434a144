// Package otp provides TOTP (RFC 6238) and HOTP (RFC 4226) code generation
// and verification, compatible with Google Authenticator.
//
// TOTP (Time-based One-Time Password) generates codes that change every 30 seconds.
// The code for a secret is HOTP(secret, floor(unix/30)): HMAC-SHA1 over the
// 8-byte big-endian step counter, dynamically truncated to 31 bits and reduced
// modulo 10^digits.
//
// # Secrets
//
// Generate a cryptographically random secret:
//
//	secret, err := otp.CreateSecret(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Secrets are drawn from a single RandomSource. There is no fallback to a
// weaker generator: if crypto/rand fails, CreateSecret returns
// ErrNoSecureRandomSource.
//
// # Engine
//
// The Engine is the stateless core:
//
//	engine, err := otp.NewEngine(otp.EngineConfig{Digits: 6, Discrepancy: otp.Window(1)})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	code, err := engine.Code(secret)
//	ok := engine.Verify(secret, code)
//
// VerifyAt and GenerateCode take an explicit step, which makes tests and
// replays deterministic:
//
//	step := engine.TimeStep(time.Unix(1111111109, 0))
//	code, _ := engine.GenerateCode(secret, step)
//	ok := engine.VerifyAt(secret, code, 0, step)
//
// Codes are compared in constant time and every step of the window is
// computed, whichever one matches.
//
// # Authenticator
//
// Authenticator binds a secret, issuer and account and follows the
// Authenticate(ctx, code) error convention:
//
//	auth, err := otp.NewAuthenticator(otp.Config{
//	    Secret:      "JBSWY3DPEHPK3PXP",
//	    Issuer:      "MyApp",
//	    AccountName: "user@example.com",
//	    Skew:        otp.Window(1),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := auth.Authenticate(ctx, "123456"); err != nil {
//	    log.Printf("Authentication failed: %v", err)
//	}
//
//	// Display as QR code for the user to scan
//	uri := auth.GetProvisioningURI()
//
// # Thread Safety
//
// Engine, SecretGenerator and Authenticator are immutable after
// construction and safe for concurrent use.
package otp
