package itemserial

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Text wrapper for serials carried as strings.
const (
	textPrefix = "BL3("
	textSuffix = ")"
)

// EncodeText wraps raw serial bytes as BL3(<base64>).
func EncodeText(raw []byte) string {
	return textPrefix + base64.StdEncoding.EncodeToString(raw) + textSuffix
}

// DecodeTextBytes unwraps BL3(<base64>) into raw serial bytes. The prefix
// is matched without regard to case and surrounding whitespace is ignored.
func DecodeTextBytes(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if len(text) < len(textPrefix)+len(textSuffix) ||
		!strings.EqualFold(text[:len(textPrefix)], textPrefix) ||
		!strings.HasSuffix(text, textSuffix) {
		return nil, fmt.Errorf("%w: want %s<base64>%s", ErrInvalidText, textPrefix, textSuffix)
	}

	inner := text[len(textPrefix) : len(text)-len(textSuffix)]
	raw, err := base64.StdEncoding.DecodeString(inner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidText, err)
	}
	return raw, nil
}
