package keyboard

import _ "embed"

//go:embed layouts/qwerty.toml
var qwertyTOML []byte

// DefaultLayout parses the embedded US QWERTY layout.
func DefaultLayout() (*Layout, error) {
	return Parse(qwertyTOML)
}
