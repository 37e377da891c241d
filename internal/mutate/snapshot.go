// Package mutate implements L4: the six primitive byte-level edits
// (replace, insert_before, insert_after, delete, wrap,
// replace_all_matching), each following the fixed execution protocol of
// spec.md §4.4: read -> parse -> resolve -> precheck -> snapshot -> edit
// -> re-parse -> postcheck -> rollback-on-failure -> result.
//
// Grounded in providers/base's doReplace/doInsertBefore/doInsertAfter/
// doDelete (byte splicing, descending-order application, indentation
// preservation) and core/atomicwriter.go's backup-before-write idea,
// simplified from whole-file locking to the single in-memory snapshot
// spec.md §5 calls for ("No locking needed under single-threaded
// execution").
package mutate

import "os"

// Snapshot holds a file's bytes from immediately before a primitive's
// edit. It is discarded on success and restored verbatim on failure
// (spec.md §3 Snapshot, §8 invariant 2).
type Snapshot struct {
	Path     string
	Original []byte
}

// take reads the current bytes of path into a Snapshot.
func take(path string) (*Snapshot, []byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Snapshot{Path: path, Original: cp}, b, nil
}

// restore writes the snapshot's original bytes back to disk unchanged.
func (s *Snapshot) restore() error {
	return os.WriteFile(s.Path, s.Original, 0o644)
}
