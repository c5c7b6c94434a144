package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeremyhahn/go-totp/pkg/otp"
	"github.com/jeremyhahn/go-totp/pkg/qrcode"
)

// errVerificationFailed makes a rejected code exit non-zero.
var errVerificationFailed = errors.New("FAILED")

type app struct {
	cfg    config
	logger *zap.Logger
	engine *otp.Engine
}

func newRootCmd(out io.Writer) *cobra.Command {
	v := newViper()
	a := &app{}

	root := &cobra.Command{
		Use:           "totp",
		Short:         "Google Authenticator compatible TOTP codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := cfg.logger()
			if err != nil {
				return err
			}
			engine, err := cfg.engine(logger)
			if err != nil {
				return err
			}
			a.cfg, a.logger, a.engine = cfg, logger, engine
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("secret", "", "base32 shared secret")
	pf.String("issuer", "", "issuer shown by authenticator apps")
	pf.Uint("digits", otp.DefaultDigits, "code length")
	pf.Uint("discrepancy", otp.DefaultDiscrepancy, "time steps tolerated either side of now")
	pf.String("log-level", "info", "debug, info, warn or error")

	root.AddCommand(
		a.secretCmd(),
		a.codeCmd(),
		a.verifyCmd(),
		a.uriCmd(),
		a.qrCmd(),
		a.demoCmd(),
	)
	return root
}

func (a *app) secretCmd() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Create a random base32 secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := otp.CreateSecret(length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", otp.DefaultSecretLength, "secret length in symbols (16-128)")
	return cmd
}

func (a *app) codeCmd() *cobra.Command {
	var step uint64
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print the code for a secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.cfg.requireSecret()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("step") {
				step = a.engine.CurrentStep()
			}
			code, err := a.engine.GenerateCode(secret, step)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&step, "step", 0, "time step (default: now)")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		code string
		step uint64
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a code against a secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.cfg.requireSecret()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("step") {
				step = a.engine.CurrentStep()
			}
			if !a.engine.VerifyAt(secret, code, a.cfg.Discrepancy, step) {
				return errVerificationFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "code to verify")
	cmd.Flags().Uint64Var(&step, "step", 0, "time step (default: now)")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func (a *app) uriCmd() *cobra.Command {
	var (
		name  string
		qrURL bool
		opts  otp.QROptions
	)
	cmd := &cobra.Command{
		Use:   "uri",
		Short: "Print the otpauth:// provisioning URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.cfg.requireSecret()
			if err != nil {
				return err
			}
			if qrURL {
				fmt.Fprintln(cmd.OutOrStdout(), otp.QRCodeURL(name, secret, a.cfg.Issuer, opts))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), otp.ProvisioningURI(name, secret, a.cfg.Issuer))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account label")
	cmd.Flags().BoolVar(&qrURL, "qr-url", false, "print a QR image service URL instead")
	cmd.Flags().IntVar(&opts.Width, "width", 200, "QR image width")
	cmd.Flags().IntVar(&opts.Height, "height", 200, "QR image height")
	cmd.Flags().StringVar(&opts.Level, "level", "M", "QR error correction level (L, M, Q, H)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) qrCmd() *cobra.Command {
	var (
		name string
		out  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Write the provisioning URI as a PNG QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.cfg.requireSecret()
			if err != nil {
				return err
			}
			png, err := qrcode.Render(otp.ProvisioningURI(name, secret, a.cfg.Issuer), size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("qr code written", zap.String("path", out), zap.Int("bytes", len(png)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account label")
	cmd.Flags().StringVar(&out, "out", "totp.png", "output file")
	cmd.Flags().IntVar(&size, "size", qrcode.DefaultSize, "image size in pixels")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// demoCmd walks through secret creation, provisioning, generation and
// verification with a two step tolerance.
func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Create a secret, print its QR URL, then generate and verify a code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			secret, err := otp.CreateSecret(otp.DefaultSecretLength)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Secret is: %s\n\n", secret)
			fmt.Fprintf(w, "QR-Code URL: %s\n\n", otp.QRCodeURL("Blog", secret, a.cfg.Issuer, otp.QROptions{}))

			code, err := a.engine.Code(secret)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Checking Code '%s' and Secret '%s':\n", code, secret)

			if !a.engine.VerifyAt(secret, code, 2, a.engine.CurrentStep()) {
				return errVerificationFailed
			}
			fmt.Fprintln(w, "OK")
			return nil
		},
	}
}
