// Package identity derives entity tags and request ids.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// ETag returns a strong entity tag for a response body. Bodies are hashed
// verbatim: two payloads differing only in case get different tags.
func ETag(body []byte) string {
	uid, err := hashid.NewUUID(string(body), hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(false))
	if err != nil || uid == uuid.Nil {
		uid = uuid.NewSHA1(uuid.NameSpaceOID, body)
	}
	return `"` + uid.String() + `"`
}

// MatchesETag reports whether an If-None-Match header value names etag.
// Weak validators compare equal to their strong form and "*" matches
// anything.
func MatchesETag(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

// RequestID derives a request id from an incoming header value, or returns
// a random one when the header is blank.
func RequestID(header string) string {
	if trimmed := strings.TrimSpace(header); trimmed != "" {
		return trimmed
	}
	return uuid.NewString()
}
