package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dgryski/go-farm"
	"github.com/timewinder-dev/forth/interp"
)

type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

// blobStore is the raw byte layer every store implements. Put on a store
// decomposes states on top of it.
type blobStore interface {
	getValue(h Hash) (bool, []byte, error)
	putValue(h Hash, data []byte) error
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// ParseHash reads the form produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Hash(v), nil
}

var ErrNotFound = errors.New("hash not found in CAS")

// Retrieve loads the item stored under hash. States are recomposed from
// their references.
func Retrieve[T any, PT interface {
	*T
	Hashable
}](c CAS, hash Hash) (PT, error) {
	var zero PT
	store, ok := c.(blobStore)
	if !ok {
		return zero, errors.New("CAS does not support direct retrieval")
	}
	out := PT(new(T))
	if _, ok := any(out).(*interp.State); ok {
		s, err := recomposeState(store, hash)
		if err != nil {
			return zero, fmt.Errorf("recomposing State: %w", err)
		}
		return any(s).(PT), nil
	}
	if err := getDirect(store, hash, out); err != nil {
		return zero, err
	}
	return out, nil
}

func put(store blobStore, item Hashable) (Hash, error) {
	if state, ok := item.(*interp.State); ok {
		return decomposeState(store, state)
	}
	return putDirect(store, item)
}

func putDirect(store blobStore, item Hashable) (Hash, error) {
	var buf bytes.Buffer
	if err := item.Serialize(&buf); err != nil {
		return 0, fmt.Errorf("serializing item: %w", err)
	}
	data := buf.Bytes()
	h := Hash(farm.Hash64(data))
	if err := store.putValue(h, data); err != nil {
		return 0, err
	}
	return h, nil
}

func getDirect(store blobStore, h Hash, into Hashable) error {
	has, data, err := store.getValue(h)
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	if err := into.Deserialize(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("deserializing %T: %w", into, err)
	}
	return nil
}
