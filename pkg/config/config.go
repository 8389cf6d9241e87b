// Package config implements the line-oriented configuration file format
// from spec.md §6 and wires the seven fixed-order stage sections into a
// suo.Builder, grounded on
// original_source/suoapp/configure.c's read_conf_and_init/configure.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kg7gio/suo/pkg/suo"
)

// Section is one `key value` block of a configuration file, in the order
// it appeared. Comment lines and the terminating `-` line are not
// represented; blank lines and lines with no delimiter are skipped and
// parsing continues with the next line.
type Section struct {
	Params []Param
}

// Param is a single parsed `key value` line.
type Param struct {
	Name  string
	Value string
}

// Parse splits r into Sections separated by lines whose first byte is '-'.
// A trailing section with no terminator is still returned. Lines starting
// with '#' are comments; blank lines are ignored.
func Parse(r io.Reader) ([]Section, error) {
	var sections []Section
	cur := Section{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if line[0] == '#' {
			continue
		}
		if line[0] == '-' {
			sections = append(sections, cur)
			cur = Section{}
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			// No delimiter: matches the C parser's "continue" on a
			// missing space, i.e. the line is silently skipped.
			continue
		}
		name := line[:sp]
		value := line[sp+1:]
		cur.Params = append(cur.Params, Param{Name: name, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading line %d: %w", lineNo, err)
	}
	sections = append(sections, cur)
	return sections, nil
}

// Apply sets every parameter of sec on cfg, in order, stopping at the
// first error (matching spec.md's "apply set_conf per line"; unlike the
// C original this is fail-fast rather than warn-and-continue, since a
// silently-ignored typo in a Go config is a correctness bug, not an
// operator convenience).
func Apply(cfg suo.Config, sec Section) error {
	for _, p := range sec.Params {
		if err := cfg.Set(p.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}
