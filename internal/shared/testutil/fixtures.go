package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Small datasets shared by service, transport and CLI tests.
const (
	// SampleCSV has two rows with a missing b, one of them duplicated
	SampleCSV = "a,b\n1,\n1,\n2,3\n"

	// SampleJSON is SampleCSV as a list of records
	SampleJSON = `[{"a":1,"b":null},{"a":1,"b":null},{"a":2,"b":3}]`

	// SampleXML is SampleCSV as an element-per-row document
	SampleXML = `<?xml version="1.0"?>
<data>
  <row><a>1</a><b></b></row>
  <row><a>1</a><b></b></row>
  <row><a>2</a><b>3</b></row>
</data>`
)

// WriteFixture writes content to name inside a fresh temp dir and returns
// the full path
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
