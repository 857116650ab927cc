package itemserial

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Fingerprinter performs deterministic one-way hashing of a plaintext body.
type Fingerprinter interface {
	// Fingerprint returns the hex-encoded digest of plaintext.
	Fingerprint(plaintext []byte) string
}

// sha256Fingerprinter implements SHA-256 fingerprints.
type sha256Fingerprinter struct{}

// SHA256Fingerprint returns a SHA-256 fingerprinter.
// The result is a hex-encoded 64-character string.
func SHA256Fingerprint() Fingerprinter {
	return &sha256Fingerprinter{}
}

func (f *sha256Fingerprinter) Fingerprint(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// blake2bFingerprinter implements BLAKE2b-256 fingerprints.
type blake2bFingerprinter struct{}

// Blake2bFingerprint returns a BLAKE2b-256 fingerprinter.
func Blake2bFingerprint() Fingerprinter {
	return &blake2bFingerprinter{}
}

func (f *blake2bFingerprinter) Fingerprint(plaintext []byte) string {
	sum := blake2b.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// blake3Fingerprinter implements BLAKE3 fingerprints.
type blake3Fingerprinter struct{}

// Blake3Fingerprint returns a BLAKE3 fingerprinter with a 32-byte digest.
func Blake3Fingerprint() Fingerprinter {
	return &blake3Fingerprinter{}
}

func (f *blake3Fingerprinter) Fingerprint(plaintext []byte) string {
	sum := blake3.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// builtinFingerprinters returns the default fingerprinter registry.
func builtinFingerprinters() map[FingerprintAlgo]Fingerprinter {
	return map[FingerprintAlgo]Fingerprinter{
		FingerprintSHA256:  SHA256Fingerprint(),
		FingerprintBlake2b: Blake2bFingerprint(),
		FingerprintBlake3:  Blake3Fingerprint(),
	}
}

// FingerprinterFor returns the builtin fingerprinter for algo.
func FingerprinterFor(algo FingerprintAlgo) (Fingerprinter, error) {
	if !IsValidFingerprintAlgo(algo) {
		return nil, fmt.Errorf("unknown fingerprint algorithm %q", algo)
	}
	return builtinFingerprinters()[algo], nil
}
