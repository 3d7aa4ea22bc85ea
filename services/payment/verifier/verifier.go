package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/services/payment/gateway"
)

// signatureTolerance bounds how old a signed webhook timestamp may be,
// limiting replay of captured payloads.
const signatureTolerance = 5 * time.Minute

// HMACVerifier validates webhook signatures with per-provider secrets.
// It fails closed: any parse or comparison failure rejects the payload.
type HMACVerifier struct {
	secrets map[string]string
	now     func() time.Time
}

// New creates a verifier from the provider configuration
func New(providers models.ProvidersConfig) *HMACVerifier {
	return &HMACVerifier{
		secrets: map[string]string{
			gateway.ProviderStripe: providers.Stripe.WebhookSecret,
			gateway.ProviderPayPal: providers.PayPal.WebhookSecret,
		},
		now: time.Now,
	}
}

// Verify validates the signature header over the raw payload
func (v *HMACVerifier) Verify(provider string, payload []byte, signatureHeader string) error {
	secret, ok := v.secrets[provider]
	if !ok || secret == "" {
		return fmt.Errorf("%w: no webhook secret for provider %q", models.ErrVerificationFailed, provider)
	}
	if signatureHeader == "" {
		return fmt.Errorf("%w: missing signature header", models.ErrVerificationFailed)
	}

	switch provider {
	case gateway.ProviderStripe:
		return v.verifyTimestamped(payload, signatureHeader, secret)
	default:
		return v.verifyPlain(payload, signatureHeader, secret)
	}
}

// verifyTimestamped checks a Stripe-style "t=<unix>,v1=<hex>" header where
// the signed message is "<timestamp>.<payload>".
func (v *HMACVerifier) verifyTimestamped(payload []byte, header, secret string) error {
	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed timestamp", models.ErrVerificationFailed)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed signature header", models.ErrVerificationFailed)
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: signature timestamp outside tolerance", models.ErrVerificationFailed)
	}

	signed := strconv.FormatInt(timestamp, 10) + "." + string(payload)
	expected := computeHMAC([]byte(signed), secret)

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}

	return fmt.Errorf("%w: signature mismatch", models.ErrVerificationFailed)
}

// verifyPlain checks a bare hex HMAC of the payload
func (v *HMACVerifier) verifyPlain(payload []byte, header, secret string) error {
	expected := computeHMAC(payload, secret)
	if !hmac.Equal([]byte(expected), []byte(header)) {
		return fmt.Errorf("%w: signature mismatch", models.ErrVerificationFailed)
	}
	return nil
}

func computeHMAC(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign computes a valid signature header for the given provider's scheme.
// Exposed for tests and local tooling.
func (v *HMACVerifier) Sign(provider string, payload []byte) (string, error) {
	secret, ok := v.secrets[provider]
	if !ok || secret == "" {
		return "", fmt.Errorf("no webhook secret for provider %q", provider)
	}

	if provider == gateway.ProviderStripe {
		timestamp := v.now().Unix()
		signed := strconv.FormatInt(timestamp, 10) + "." + string(payload)
		return fmt.Sprintf("t=%d,v1=%s", timestamp, computeHMAC([]byte(signed), secret)), nil
	}

	return computeHMAC(payload, secret), nil
}
