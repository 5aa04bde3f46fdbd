package binary

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// maxSignatureSize bounds the detached signature download.
const maxSignatureSize = 1 << 20

// Verifier checks downloaded binaries against pinned checksums and, when a
// keyring is configured, an OpenPGP detached signature. Biome does not
// publish either upstream, so both are opt-in through configuration.
type Verifier struct {
	checksums       map[string]string
	keyring         openpgp.EntityList
	signatureSuffix string
	client          *http.Client
}

// VerifierConfig configures a Verifier.
type VerifierConfig struct {
	// Checksums maps artifact names to hex SHA256 digests.
	Checksums map[string]string
	// Keyring holds trusted signing keys; nil disables signature checks.
	Keyring openpgp.EntityList
	// SignatureSuffix is appended to the binary URL to locate the signature.
	SignatureSuffix string
	// Client fetches signatures.
	Client *http.Client
}

// NewVerifier creates a new verifier
func NewVerifier(cfg VerifierConfig) *Verifier {
	suffix := cfg.SignatureSuffix
	if suffix == "" {
		suffix = ".asc"
	}
	client := cfg.Client
	if client == nil {
		client = NewHTTPClient()
	}
	return &Verifier{
		checksums:       cfg.Checksums,
		keyring:         cfg.Keyring,
		signatureSuffix: suffix,
		client:          client,
	}
}

// Enabled reports whether any check would run for artifact.
func (v *Verifier) Enabled(artifact string) bool {
	if v == nil {
		return false
	}
	_, pinned := v.checksums[artifact]
	return pinned || len(v.keyring) > 0
}

// VerifyFile runs every configured check for artifact against binaryPath and
// returns the strongest method that passed.
func (v *Verifier) VerifyFile(ctx context.Context, binaryPath, artifact, binaryURL string) (VerificationMethod, error) {
	method := VerificationNone

	if expected, ok := v.checksums[artifact]; ok {
		if err := v.verifySHA256(binaryPath, expected); err != nil {
			return VerificationNone, fmt.Errorf("%w: %s: %w", ErrVerification, artifact, err)
		}
		method = VerificationSHA256
	}

	if len(v.keyring) > 0 {
		sig, err := v.fetchSignature(ctx, binaryURL+v.signatureSuffix)
		if err != nil {
			return VerificationNone, fmt.Errorf("%w: %s: %w", ErrVerification, artifact, err)
		}
		if err := v.verifyGPG(binaryPath, sig); err != nil {
			return VerificationNone, fmt.Errorf("%w: %s: %w", ErrVerification, artifact, err)
		}
		method = VerificationGPG
	}

	return method, nil
}

// verifySHA256 compares the file digest to expected (case-insensitive).
func (v *Verifier) verifySHA256(binaryPath, expected string) error {
	actual, err := calculateSHA256(binaryPath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actual, expected)
	}
	return nil
}

// verifyGPG verifies a file against an armored or binary detached signature.
func (v *Verifier) verifyGPG(binaryPath string, signature []byte) error {
	binaryFile, err := os.Open(binaryPath)
	if err != nil {
		return fmt.Errorf("open binary: %w", err)
	}
	defer binaryFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, binaryFile, bytes.NewReader(signature), nil)
	if err != nil {
		// Try non-armored signature
		if _, serr := binaryFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind binary: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(v.keyring, binaryFile, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

func (v *Verifier) fetchSignature(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download signature: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download signature: unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSignatureSize))
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}
	return data, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
