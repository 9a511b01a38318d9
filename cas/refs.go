package cas

import (
	"io"

	"github.com/shamaton/msgpack/v2"
)

// StateRef is the stored form of interp.State. Word definitions are kept as
// separate entries so snapshots that share a dictionary share its storage.
type StateRef struct {
	StackHash  Hash
	WordHashes []Hash // sorted by word name
}

func (s *StateRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *StateRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

type StackRef struct {
	Values []int
}

func (s *StackRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *StackRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

type WordRef struct {
	Name   string
	Tokens []string
}

func (wr *WordRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, wr)
}

func (wr *WordRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, wr)
}
