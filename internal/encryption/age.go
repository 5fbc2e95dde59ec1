package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// ErrNoIdentity is returned when sealing or opening is attempted before an
// identity file exists.
var ErrNoIdentity = errors.New("token identity is not set up")

// AgeSealer seals short secrets with an X25519 identity kept in a local file.
// Sealed values are ASCII armored so they can live in text fields.
type AgeSealer struct {
	identityPath string
}

// NewAgeSealer creates a sealer backed by the identity at identityPath.
func NewAgeSealer(identityPath string) *AgeSealer {
	return &AgeSealer{identityPath: identityPath}
}

// IsConfigured returns true if the identity file exists.
func (s *AgeSealer) IsConfigured() bool {
	_, err := os.Stat(s.identityPath)
	return err == nil
}

// Setup generates a new identity and writes it readable by the owner only.
// An existing identity is never replaced.
func (s *AgeSealer) Setup() error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.identityPath), 0700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}

	f, err := os.OpenFile(s.identityPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating identity file: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, identity.String()+"\n"); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}

// Seal encrypts plaintext to the stored identity's recipient.
func (s *AgeSealer) Seal(plaintext string) (string, error) {
	identity, err := s.loadIdentity()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("encrypting token: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.String(), nil
}

// Open decrypts a value produced by Seal.
func (s *AgeSealer) Open(sealed string) (string, error) {
	identity, err := s.loadIdentity()
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(sealed)), identity)
	if err != nil {
		return "", fmt.Errorf("creating decrypted reader: %w", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decrypting token: %w", err)
	}
	return string(b), nil
}

// IsSealed reports whether value looks like the output of Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), armor.Header)
}

func (s *AgeSealer) loadIdentity() (*age.X25519Identity, error) {
	data, err := os.ReadFile(s.identityPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, s.identityPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	for _, id := range identities {
		if x, ok := id.(*age.X25519Identity); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("no X25519 identity found in %s", s.identityPath)
}
