package cas

import (
	"fmt"

	"github.com/timewinder-dev/forth/interp"
)

// recomposeState reconstructs a State from a StateRef stored in the CAS
func recomposeState(store blobStore, hash Hash) (*interp.State, error) {
	var ref StateRef
	if err := getDirect(store, hash, &ref); err != nil {
		return nil, fmt.Errorf("retrieving StateRef: %w", err)
	}

	var stack StackRef
	if err := getDirect(store, ref.StackHash, &stack); err != nil {
		return nil, fmt.Errorf("retrieving stack: %w", err)
	}

	s := &interp.State{Stack: stack.Values}
	if s.Stack == nil {
		s.Stack = []int{}
	}
	for i, h := range ref.WordHashes {
		var w WordRef
		if err := getDirect(store, h, &w); err != nil {
			return nil, fmt.Errorf("retrieving word %d: %w", i, err)
		}
		s.Words = append(s.Words, interp.WordDef{Name: w.Name, Tokens: w.Tokens})
	}
	return s, nil
}
