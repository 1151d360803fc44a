package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// expandInputs turns the positional arguments into PDF paths. Directories contribute
// their top-level *.pdf files in name order; files are passed through as given so the
// parser can report names it rejects.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
