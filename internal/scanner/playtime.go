package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"steampick/internal/models"
	"steampick/internal/vdf"
)

// localConfigPath is the per-profile config file, relative to the profile dir
var localConfigPath = filepath.Join("config", "localconfig.vdf")

// parseContext tracks where the parser is inside a nested config file.
// A line holding a single quoted value names the block that the next "{"
// opens; braces push and pop that name on the stack.
type parseContext struct {
	stack   []string
	pending string
	hasKey  bool
}

// setPending remembers key as the name of the next block
func (c *parseContext) setPending(key string) {
	c.pending = key
	c.hasKey = true
}

// open pushes the pending key, if any
func (c *parseContext) open() {
	if !c.hasKey {
		return
	}
	c.stack = append(c.stack, c.pending)
	c.pending = ""
	c.hasKey = false
}

// close pops one level. Extra closing braces are ignored.
func (c *parseContext) close() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// appID returns the enclosing block name when the parser is directly
// inside apps/<id>
func (c *parseContext) appID() (string, bool) {
	n := len(c.stack)
	if n < 2 || c.stack[n-2] != "apps" {
		return "", false
	}
	return c.stack[n-1], true
}

// ParsePlaytime extracts apps/<id>/Playtime values from a localconfig.vdf
func ParsePlaytime(data []byte) models.PlaytimeTable {
	table := models.PlaytimeTable{}
	ctx := &parseContext{}

	for _, line := range vdf.Lines(data) {
		values := vdf.QuotedValues(line)

		switch {
		case len(values) == 1:
			ctx.setPending(values[0])
		case len(values) >= 2 && values[0] == "Playtime":
			if appID, ok := ctx.appID(); ok {
				if minutes, err := strconv.ParseUint(values[1], 10, 64); err == nil {
					table[appID] = minutes
				}
			}
		}

		for _, ch := range line {
			switch ch {
			case '{':
				ctx.open()
			case '}':
				ctx.close()
			}
		}
	}

	return table
}

// CollectPlaytime parses the config of every profile under userdataDir and
// merges them, keeping the highest playtime seen for each app. Missing or
// unreadable profiles contribute nothing.
func (s *Scanner) CollectPlaytime(userdataDir string) models.PlaytimeTable {
	table := models.PlaytimeTable{}

	entries, err := os.ReadDir(userdataDir)
	if err != nil {
		s.logger.Debug("no user profiles", "dir", userdataDir, "err", err)
		return table
	}

	for _, entry := range entries {
		// Profiles may be symlinked in from another disk
		if !entry.IsDir() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}

		path := filepath.Join(userdataDir, entry.Name(), localConfigPath)
		res := readFile(path)
		switch res.Status {
		case ReadAbsent:
			continue
		case ReadFailed:
			s.logger.Debug("skipping profile config", "path", path, "err", res.Err)
			continue
		}

		profile := ParsePlaytime(res.Data)
		s.logger.Debug("parsed profile playtime", "profile", entry.Name(), "apps", len(profile))
		table.Merge(profile)
	}

	return table
}
