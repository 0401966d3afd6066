package sexpr

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher performs one-way hashing of canonical document text.
type Hasher interface {
	// Hash returns the hex-encoded digest of plaintext.
	Hash(plaintext []byte) (string, error)
}

// sha256Hasher implements SHA-256 hashing.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher.
// The result is a hex-encoded 64-character string.
func SHA256Hasher() Hasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) Hash(plaintext []byte) (string, error) {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hasher implements SHA-512 hashing.
type sha512Hasher struct{}

// SHA512Hasher returns a SHA-512 hasher.
// The result is a hex-encoded 128-character string.
func SHA512Hasher() Hasher {
	return &sha512Hasher{}
}

func (h *sha512Hasher) Hash(plaintext []byte) (string, error) {
	sum := sha512.Sum512(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// blake2bHasher implements BLAKE2b-256 hashing.
type blake2bHasher struct{}

// Blake2bHasher returns a BLAKE2b-256 hasher.
// The result is a hex-encoded 64-character string.
func Blake2bHasher() Hasher {
	return &blake2bHasher{}
}

func (h *blake2bHasher) Hash(plaintext []byte) (string, error) {
	sum := blake2b.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// builtinHashers returns the default hasher registry.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashSHA256:  SHA256Hasher(),
		HashSHA512:  SHA512Hasher(),
		HashBlake2b: Blake2bHasher(),
	}
}

// Fingerprint hashes the canonical rendering of n: compact, with quotes only
// where the text requires them. Documents that differ only in whitespace or
// in redundant quoting share a fingerprint.
func Fingerprint(n *Node, h Hasher) (string, error) {
	if h == nil {
		h = SHA256Hasher()
	}
	var buf bytes.Buffer
	if err := NewWriter(&buf, WithMinimalQuoting()).WriteNode(n); err != nil {
		return "", err
	}
	return h.Hash(buf.Bytes())
}
