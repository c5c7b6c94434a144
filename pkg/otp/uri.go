package otp

import (
	"fmt"
	"net/url"
	"strings"

	pqotp "github.com/pquerna/otp"
)

// ProvisioningURI returns the otpauth:// URI that authenticator apps scan:
//
//	otpauth://totp/<name>?secret=<secret>[&issuer=<issuer>]
//
// name is path-escaped and issuer is query-escaped. The issuer parameter is
// omitted when empty.
func ProvisioningURI(name, secret, issuer string) string {
	uri := "otpauth://totp/" + url.PathEscape(name) + "?secret=" + secret
	if issuer != "" {
		uri += "&issuer=" + url.QueryEscape(issuer)
	}
	return uri
}

// QRServerURL is the endpoint QRCodeURL points at.
const QRServerURL = "https://api.qrserver.com/v1/create-qr-code/"

// QROptions controls the image requested by QRCodeURL.
type QROptions struct {
	// Width in pixels. Default: 200
	Width int
	// Height in pixels. Default: 200
	Height int
	// Level is the error correction level: L, M, Q or H. Default: M
	Level string
}

func (o QROptions) withDefaults() QROptions {
	if o.Width <= 0 {
		o.Width = 200
	}
	if o.Height <= 0 {
		o.Height = 200
	}
	switch o.Level {
	case "L", "M", "Q", "H":
	default:
		o.Level = "M"
	}
	return o
}

// QRCodeURL returns a URL asking an external QR service to render the
// provisioning URI for name and secret. The URI is URL-encoded as a whole
// into the data parameter; nothing is fetched.
func QRCodeURL(name, secret, title string, opts QROptions) string {
	opts = opts.withDefaults()
	data := url.QueryEscape(ProvisioningURI(name, secret, title))
	return fmt.Sprintf("%s?data=%s&size=%dx%d&ecc=%s", QRServerURL, data, opts.Width, opts.Height, opts.Level)
}

// URIInfo describes an imported otpauth:// key.
type URIInfo struct {
	Issuer      string
	AccountName string
	Secret      string
	Digits      uint
}

// ParseURI imports an otpauth://totp URI produced by another tool. Only
// keys this package can verify are accepted: SHA1, 30 second period and at
// most MaxDigits digits. The secret is upper-cased and must decode.
func ParseURI(raw string) (URIInfo, error) {
	key, err := pqotp.NewKeyFromURL(raw)
	if err != nil {
		return URIInfo{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if key.Type() != "totp" {
		return URIInfo{}, fmt.Errorf("%w: unsupported key type %q", ErrInvalidConfig, key.Type())
	}
	if key.Algorithm() != pqotp.AlgorithmSHA1 {
		return URIInfo{}, fmt.Errorf("%w: unsupported algorithm %s", ErrInvalidConfig, key.Algorithm())
	}
	if key.Period() != DefaultPeriod {
		return URIInfo{}, fmt.Errorf("%w: unsupported period %d", ErrInvalidConfig, key.Period())
	}

	digits := int(key.Digits())
	if digits < 1 || digits > MaxDigits {
		return URIInfo{}, fmt.Errorf("%w: unsupported digits %d", ErrInvalidConfig, digits)
	}

	secret := strings.ToUpper(key.Secret())
	if secret == "" {
		return URIInfo{}, fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}
	if _, err := decodeSecret(secret); err != nil {
		return URIInfo{}, err
	}

	return URIInfo{
		Issuer:      key.Issuer(),
		AccountName: key.AccountName(),
		Secret:      secret,
		Digits:      uint(digits),
	}, nil
}
