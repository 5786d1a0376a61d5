package scanner

import (
	"fmt"
	"strings"

	"steampick/internal/vdf"
)

// ResolveLibraries returns the library root directories listed in a
// libraryfolders.vdf index, in file order. A missing index yields an empty
// slice and no error; any other read failure is returned.
func ResolveLibraries(indexPath string) ([]string, error) {
	res := readFile(indexPath)
	switch res.Status {
	case ReadAbsent:
		return []string{}, nil
	case ReadFailed:
		return nil, fmt.Errorf("read library index %s: %w", indexPath, res.Err)
	}

	return parseLibraryPaths(res.Data), nil
}

// parseLibraryPaths collects every "path" value. Windows paths are stored with
// doubled backslashes.
func parseLibraryPaths(data []byte) []string {
	paths := []string{}
	for _, line := range vdf.Lines(data) {
		key, value, ok := vdf.Pair(line)
		if !ok || key != "path" {
			continue
		}
		paths = append(paths, strings.ReplaceAll(value, `\\`, `\`))
	}
	return paths
}
