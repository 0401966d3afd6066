package sexpr

// HashAlgo names a supported fingerprint algorithm.
// Use these constants with WithHashAlgo or in configuration files.
type HashAlgo string

const (
	// HashSHA256 uses SHA-256.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512.
	HashSHA512 HashAlgo = "sha512"

	// HashBlake2b uses BLAKE2b with a 256-bit digest.
	HashBlake2b HashAlgo = "blake2b"
)

// validHashAlgos contains all valid hash algorithms.
var validHashAlgos = map[HashAlgo]bool{
	HashSHA256:  true,
	HashSHA512:  true,
	HashBlake2b: true,
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// validQuotePolicies maps configuration spellings to quote policies.
var validQuotePolicies = map[string]QuotePolicy{
	"minimal": QuoteMinimal,
	"strings": QuoteStrings,
	"always":  QuoteAlways,
}

// ParseQuotePolicy returns the policy spelled s: minimal, strings or always.
func ParseQuotePolicy(s string) (QuotePolicy, bool) {
	q, ok := validQuotePolicies[s]
	return q, ok
}

func (q QuotePolicy) String() string {
	for name, v := range validQuotePolicies {
		if v == q {
			return name
		}
	}
	return "unknown"
}
