// Package encoding decodes legacy-encoded mesh sources to UTF-8.
//
// Older exporters write object and group names in the code page of the
// authoring machine (EUC-KR, Shift_JIS, Windows-1252). Numbers and indices
// are ASCII in every supported charset, so decoding only affects names and
// comments, but it keeps line splitting sane for multi-byte text.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for charset names x/text does not know.
var ErrUnknownCharset = errors.New("unknown charset")

// Lookup resolves a charset label such as "euc-kr", "shift_jis" or
// "windows-1252". An empty label or any UTF-8 label returns nil, meaning
// no decoding is needed.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf-8", "utf8":
		return nil, nil
	case "euckr", "cp949":
		// Common spellings htmlindex does not carry.
		return korean.EUCKR, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	return enc, nil
}

// NewReader wraps r so that it yields UTF-8 decoded from the named charset.
// r is returned unchanged for UTF-8 labels.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
