package formula

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes f to w as TOML. Encoding a parsed formula and parsing
// the output yields a structurally identical Formula.
func (f *Formula) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encoding formula %q: %w", f.Name, err)
	}
	return nil
}

// EncodeTOML renders f as TOML text.
func (f *Formula) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
