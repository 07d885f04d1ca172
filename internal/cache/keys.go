package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key prefix for reference resolutions
const prefixResolve = "resolve"

// ResolutionKey generates a cache key for a (url, ref) pair.
// The key is a SHA256 hash of the normalized URL plus the reference so that
// equivalent spellings of the same remote share one entry.
func ResolutionKey(rawURL, ref string) string {
	normalized := normalizeForKey(rawURL) + "#" + ref
	hash := sha256.Sum256([]byte(normalized))
	return prefixResolve + ":" + hex.EncodeToString(hash[:])
}

// normalizeForKey normalizes a repository URL for consistent key generation
func normalizeForKey(rawURL string) string {
	rawURL = strings.TrimSuffix(rawURL, "/")
	rawURL = strings.TrimSuffix(rawURL, ".git")

	// SSH URLs (git@host:path) and HTTP URLs of the same repository should
	// share a key
	if at := strings.Index(rawURL, "@"); at >= 0 && !strings.Contains(rawURL, "://") {
		hostPath := rawURL[at+1:]
		return strings.ToLower(strings.Replace(hostPath, ":", "/", 1))
	}

	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		hostPath := rawURL[idx+3:]
		if at := strings.Index(hostPath, "@"); at >= 0 {
			hostPath = hostPath[at+1:]
		}
		return strings.ToLower(hostPath)
	}

	return strings.ToLower(rawURL)
}

// MutableRef reports whether a reference can move over time.
// Branch heads are mutable; tags and raw revisions are treated as immutable.
func MutableRef(ref string) bool {
	if ref == "" || ref == "HEAD" {
		return true
	}
	if strings.HasPrefix(ref, "refs/heads/") {
		return true
	}
	if strings.HasPrefix(ref, "refs/tags/") {
		return false
	}
	// Raw revision strings (full or abbreviated hashes) are immutable
	return !isHexish(ref)
}

func isHexish(s string) bool {
	if len(s) < 7 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}
