package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IdentifierGenerator produces the public identifiers of a certificate.
type IdentifierGenerator interface {
	// NewCertificateID returns CERT-<base36 unix millis>-<8 hex>, upper-cased.
	NewCertificateID() (string, error)
	// NewVerificationCode returns 32 upper-case hex characters.
	NewVerificationCode() (string, error)
}

type randomIdentifierGenerator struct {
	now func() time.Time
}

func NewIdentifierGenerator() IdentifierGenerator {
	return &randomIdentifierGenerator{now: time.Now}
}

// NewIdentifierGeneratorWithClock is used by tests that need a fixed timestamp part.
func NewIdentifierGeneratorWithClock(now func() time.Time) IdentifierGenerator {
	return &randomIdentifierGenerator{now: now}
}

func (g *randomIdentifierGenerator) NewCertificateID() (string, error) {
	suffix, err := randomHex(4)
	if err != nil {
		return "", fmt.Errorf("randomIdentifierGenerator.NewCertificateID: %w", err)
	}
	ts := strconv.FormatInt(g.now().UnixMilli(), 36)
	return strings.ToUpper("CERT-" + ts + "-" + suffix), nil
}

func (g *randomIdentifierGenerator) NewVerificationCode() (string, error) {
	code, err := randomHex(16)
	if err != nil {
		return "", fmt.Errorf("randomIdentifierGenerator.NewVerificationCode: %w", err)
	}
	return strings.ToUpper(code), nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// normalizeIdentifier makes lookups case-insensitive: identifiers are
// always stored upper-cased.
func normalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
