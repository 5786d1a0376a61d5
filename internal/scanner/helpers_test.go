package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates path and its parent directories
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// manifest renders a minimal appmanifest file
func manifest(appID, name string, lastPlayed uint64) string {
	var b strings.Builder
	b.WriteString("\"AppState\"\n{\n")
	fmt.Fprintf(&b, "\t\"appid\"\t\t\"%s\"\n", appID)
	fmt.Fprintf(&b, "\t\"name\"\t\t\"%s\"\n", name)
	if lastPlayed > 0 {
		fmt.Fprintf(&b, "\t\"LastPlayed\"\t\t\"%d\"\n", lastPlayed)
	}
	b.WriteString("}\n")
	return b.String()
}

// libraryIndex renders a libraryfolders.vdf listing paths
func libraryIndex(paths ...string) string {
	var b strings.Builder
	b.WriteString("\"libraryfolders\"\n{\n")
	for i, p := range paths {
		fmt.Fprintf(&b, "\t\"%d\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n\t\t\"label\"\t\t\"\"\n\t}\n", i, p)
	}
	b.WriteString("}\n")
	return b.String()
}

// localConfig renders a localconfig.vdf with the given playtimes
func localConfig(playtimes map[string]int) string {
	var b strings.Builder
	b.WriteString("\"UserLocalConfigStore\"\n{\n\t\"Software\"\n\t{\n\t\t\"Valve\"\n\t\t{\n\t\t\t\"Steam\"\n\t\t\t{\n")
	b.WriteString("\t\t\t\t\"apps\"\n\t\t\t\t{\n")
	for appID, minutes := range playtimes {
		fmt.Fprintf(&b, "\t\t\t\t\t\"%s\"\n\t\t\t\t\t{\n", appID)
		fmt.Fprintf(&b, "\t\t\t\t\t\t\"LastPlayed\"\t\t\"1700000000\"\n")
		fmt.Fprintf(&b, "\t\t\t\t\t\t\"Playtime\"\t\t\"%d\"\n", minutes)
		b.WriteString("\t\t\t\t\t}\n")
	}
	b.WriteString("\t\t\t\t}\n\t\t\t}\n\t\t}\n\t}\n}\n")
	return b.String()
}

// steamRoot creates an empty ~/.steam layout in a temp dir
func steamRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".steam")
	if err := os.MkdirAll(filepath.Join(root, "steam", "steamapps"), 0755); err != nil {
		t.Fatalf("Failed to create steam root: %v", err)
	}
	return root
}

// skipIfRoot skips permission tests when running with root privileges
func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
}
