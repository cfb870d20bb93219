// Package logging keeps credentials out of log output. Validation
// errors and request diagnostics can embed the very token or secret
// they complain about; sanitize them before they reach a log field.
package logging

import (
	"regexp"
)

// RedactedText replaces sensitive data in sanitized output.
const RedactedText = "[REDACTED]"

var (
	// JWT-shaped values: three base64url segments separated by dots,
	// with or without the Bearer prefix.
	jwtPattern = regexp.MustCompile(`(Bearer\s+)?[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]*`)

	// password=..., secret=..., token=... in query strings or
	// connection strings.
	secretParamPattern = regexp.MustCompile(`(?i)(password|secret|token|key)=[^;&\s]+`)

	// user:pass@host credentials embedded in URLs (Redis, proxies).
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)
)

// Sanitize redacts token- and credential-shaped substrings from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	out := jwtPattern.ReplaceAllString(s, "${1}"+RedactedText)
	out = secretParamPattern.ReplaceAllString(out, "${1}="+RedactedText)
	out = urlCredsPattern.ReplaceAllString(out, "://"+RedactedText+"@")
	return out
}

// SanitizeError sanitizes an error message for logging. Returns empty
// string for nil.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}
