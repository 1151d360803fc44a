// Package index builds the key → attachment mapping consumed by the ledger matcher.
package index

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// DefaultFolderName is the conventional attachment folder shipped next to the ledger.
const DefaultFolderName = "合同PDF附件"

// CollisionPolicy decides which PDF keeps a key claimed by more than one file.
type CollisionPolicy string

const (
	PolicyLastWins  CollisionPolicy = "last"
	PolicyFirstWins CollisionPolicy = "first"
)

// ParseCollisionPolicy accepts "last", "first" or "" (last).
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case "", PolicyLastWins:
		return PolicyLastWins, nil
	case PolicyFirstWins:
		return PolicyFirstWins, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want %q or %q)", s, PolicyLastWins, PolicyFirstWins)
	}
}

// Options configures Build.
type Options struct {
	FolderName string
	Policy     CollisionPolicy
}

// DefaultOptions returns the conventional folder name and last-write-wins.
func DefaultOptions() Options {
	return Options{
		FolderName: DefaultFolderName,
		Policy:     PolicyLastWins,
	}
}

// Index maps each key to exactly one attachment entry.
type Index struct {
	entries map[contract.Key]contract.AttachmentEntry
	order   []contract.Key
}

// Build indexes parsed contracts. Collisions are resolved here, per opts.Policy,
// so lookups are never ambiguous.
func Build(parsed []contract.ParsedContract, opts Options) (*Index, []contract.Collision) {
	if opts.FolderName == "" {
		opts.FolderName = DefaultFolderName
	}
	if opts.Policy == "" {
		opts.Policy = PolicyLastWins
	}

	idx := &Index{
		entries: make(map[contract.Key]contract.AttachmentEntry, len(parsed)),
		order:   make([]contract.Key, 0, len(parsed)),
	}
	var collisions []contract.Collision

	for _, pc := range parsed {
		key := pc.Key()
		entry := newEntry(pc, opts.FolderName)

		existing, ok := idx.entries[key]
		if !ok {
			idx.entries[key] = entry
			idx.order = append(idx.order, key)
			continue
		}

		if opts.Policy == PolicyFirstWins {
			collisions = append(collisions, contract.Collision{Key: key, Kept: existing.Filename, Discarded: entry.Filename})
			continue
		}
		collisions = append(collisions, contract.Collision{Key: key, Kept: entry.Filename, Discarded: existing.Filename})
		idx.entries[key] = entry
	}

	return idx, collisions
}

func newEntry(pc contract.ParsedContract, folder string) contract.AttachmentEntry {
	name := filepath.Base(pc.SourcePath)
	src := pc.SourcePath
	if abs, err := filepath.Abs(src); err == nil {
		src = abs
	}
	return contract.AttachmentEntry{
		ContractNumber: pc.ContractNumber,
		SourcePath:     src,
		Filename:       name,
		// Links inside the workbook always use forward slashes.
		RelativePath: path.Join(folder, name),
	}
}

// Lookup returns the entry for key.
func (i *Index) Lookup(key contract.Key) (contract.AttachmentEntry, bool) {
	e, ok := i.entries[key]
	return e, ok
}

// Len returns the number of distinct keys.
func (i *Index) Len() int {
	return len(i.entries)
}

// Keys returns the keys in order of first appearance.
func (i *Index) Keys() []contract.Key {
	keys := make([]contract.Key, len(i.order))
	copy(keys, i.order)
	return keys
}

// Entries returns the resolved entries in order of first appearance of their key.
func (i *Index) Entries() []contract.AttachmentEntry {
	out := make([]contract.AttachmentEntry, 0, len(i.order))
	for _, k := range i.order {
		out = append(out, i.entries[k])
	}
	return out
}
