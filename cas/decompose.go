package cas

import (
	"fmt"

	"github.com/timewinder-dev/forth/interp"
)

// decomposeState stores the stack and each word separately and returns the
// hash of the StateRef tying them together.
func decomposeState(store blobStore, s *interp.State) (Hash, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot decompose nil State")
	}

	stack := &StackRef{Values: s.Stack}
	if stack.Values == nil {
		stack.Values = []int{}
	}
	stackHash, err := putDirect(store, stack)
	if err != nil {
		return 0, fmt.Errorf("decomposing stack: %w", err)
	}

	ref := &StateRef{
		StackHash:  stackHash,
		WordHashes: make([]Hash, 0, len(s.Words)),
	}
	for _, w := range s.Words {
		h, err := putDirect(store, &WordRef{Name: w.Name, Tokens: w.Tokens})
		if err != nil {
			return 0, fmt.Errorf("decomposing word %s: %w", w.Name, err)
		}
		ref.WordHashes = append(ref.WordHashes, h)
	}
	return putDirect(store, ref)
}
