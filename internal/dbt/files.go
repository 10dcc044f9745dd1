package dbt

import (
	"os"
	"strings"
	"unicode/utf8"
)

// readFileLossy reads a file as UTF-8, replacing invalid byte sequences
// with U+FFFD. Binary or mis-encoded files never fail the read.
func readFileLossy(path string) (string, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: paths come from directory walks of the scanned project
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}
