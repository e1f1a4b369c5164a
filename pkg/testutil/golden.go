// Package testutil provides golden file testing utilities.
package testutil

import (
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lepinkainen/folio/pkg/filesystem"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGolden compares the actual output with the golden file content.
// If the -update flag is provided, it updates the golden file with the actual output.
func CompareGolden(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if *update {
		if err := filesystem.WriteFileAtomic(goldenPath, []byte(actual)); err != nil {
			t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	content, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}

	// Checkouts on Windows may rewrite line endings.
	expected := strings.ReplaceAll(string(content), "\r\n", "\n")
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("Golden file mismatch for %s (-want +got):\n%s", goldenPath, diff)
	}
}
