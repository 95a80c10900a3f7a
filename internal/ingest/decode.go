package ingest

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns raw bytes into text without ever failing. A UTF-8 or
// UTF-16 byte order mark selects the matching decoder and is stripped;
// undecodable bytes are dropped.
func DecodeText(data []byte) string {
	decoder := unicode.BOMOverride(transform.Nop)
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		out = data
	}
	text := strings.ToValidUTF8(string(out), "")
	return strings.ReplaceAll(text, "\uFFFD", "")
}
