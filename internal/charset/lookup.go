package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// Encoding is a resolved, decodable text encoding.
type Encoding struct {
	Name string
	enc  encoding.Encoding
	utf8 bool
}

// utf8Names are handled by the strict UTF-8 path rather than x/text.
var utf8Names = map[string]bool{
	"utf-8":     true,
	"utf8":      true,
	"utf-8-sig": true,
	"utf_8_sig": true,
	"utf-8-bom": true,
	"ascii":     true,
	"us-ascii":  true,
}

// singleByte pins the Western fallbacks to their exact tables. The WHATWG
// index used by htmlindex treats iso-8859-1 as windows-1252.
var singleByte = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
}

// aliases maps names reported by chardet that neither index knows.
var aliases = map[string]string{
	"gb-18030": "gb18030",
}

// Lookup resolves an encoding name as reported by a classifier or written
// in configuration.
func Lookup(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Encoding{}, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if utf8Names[key] {
		return Encoding{Name: key, utf8: true}, nil
	}
	if enc, ok := singleByte[key]; ok {
		return Encoding{Name: key, enc: enc}, nil
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}

	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return Encoding{Name: key, enc: enc}, nil
	}
	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		return Encoding{Name: key, enc: enc}, nil
	}
	return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}
