package errors

import "unicode"

// MaxInputBytes bounds the size of a single text accepted by the HTTP API and
// the CLI. Codecs hold the whole input in memory.
const MaxInputBytes = 1 << 20

// ValidateInput checks a text destined for encode, decode or crack.
// Empty text is allowed here; callers decide what empty means for them.
func ValidateInput(text string) error {
	if len(text) > MaxInputBytes {
		return New(ErrCodeInvalidInput, "input too long (%d bytes, max %d)", len(text), MaxInputBytes)
	}
	return nil
}

// ValidateSchemeToken validates a scheme name token supplied by a user.
// It does not check that the scheme exists; unknown names are a skip,
// not an error.
//
// The validation rules are intentionally conservative:
//   - No empty tokens
//   - Maximum length of 32 characters
//   - No whitespace or control characters
func ValidateSchemeToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidInput, "scheme name cannot be empty")
	}
	if len(token) > 32 {
		return New(ErrCodeInvalidInput, "scheme name too long: %q", token)
	}
	for _, r := range token {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "scheme name contains invalid characters: %q", token)
		}
	}
	return nil
}
