package knight

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrMalformedState is returned by UnmarshalBinary when a payload cannot be
// decoded into a well-formed SearchState.
var ErrMalformedState = errors.New("knight: malformed serialized search state")

// SearchState is a partial solution to the knight's figure tour: the move
// history so far, the figures not yet visited, and the step count. It
// mirrors the tuple (MoveHistory, TargetSet, steps) of spec §3.
//
// A SearchState is owned by whichever goroutine is currently expanding it;
// Clone is the only sanctioned way to share one across branches.
type SearchState struct {
	history []Coordinate
	targets *TargetSet
	steps   int
}

// New creates the root SearchState: history = [start], the full target set,
// steps = 0 (or an explicit starting step count, for tasks seeded mid-tree).
func New(start Coordinate, targets *TargetSet, steps int) *SearchState {
	return &SearchState{
		history: []Coordinate{start},
		targets: targets.Clone(),
		steps:   steps,
	}
}

// Clone returns a deep copy suitable for branching: the parent is left
// untouched and the child can be mutated freely via Apply.
func (s *SearchState) Clone() *SearchState {
	h := make([]Coordinate, len(s.history))
	copy(h, s.history)
	return &SearchState{
		history: h,
		targets: s.targets.Clone(),
		steps:   s.steps,
	}
}

// Current returns the knight's present square (the last history entry).
func (s *SearchState) Current() Coordinate {
	return s.history[len(s.history)-1]
}

// Steps reports the number of moves made so far.
func (s *SearchState) Steps() int {
	return s.steps
}

// History returns the move sequence so far. The caller must not mutate it.
func (s *SearchState) History() []Coordinate {
	return s.history
}

// Targets returns the remaining, not-yet-visited target set. The caller
// must not mutate it.
func (s *SearchState) Targets() *TargetSet {
	return s.targets
}

// Apply mutates the state in place: it appends coord to the history, removes
// it from the target set if it was still outstanding, and increments steps.
// The caller guarantees coord is a legal knight move from Current(); Apply
// does not re-validate this (precondition per spec §4.2).
func (s *SearchState) Apply(coord Coordinate) {
	s.history = append(s.history, coord)
	s.targets.Remove(coord)
	s.steps++
}

// scoredMove pairs a candidate move with its heuristic sort key.
type scoredMove struct {
	coord     Coordinate
	hitsTarget bool
}

// AvailableMoves returns the on-board knight moves from the current
// position, sorted so that moves landing on a remaining target come first.
// The sort is stable, so ties preserve the canonical offset order. This is
// the "target-first" resolution of the spec's open heuristic question.
func (s *SearchState) AvailableMoves(n int) []Coordinate {
	raw := KnightMovesFrom(s.Current(), n)
	scored := make([]scoredMove, len(raw))
	for i, c := range raw {
		scored[i] = scoredMove{coord: c, hitsTarget: s.targets.Contains(c)}
	}
	// stable partition: target-hitting moves first, original order preserved
	// within each partition.
	out := make([]Coordinate, 0, len(scored))
	for _, m := range scored {
		if m.hitsTarget {
			out = append(out, m.coord)
		}
	}
	for _, m := range scored {
		if !m.hitsTarget {
			out = append(out, m.coord)
		}
	}
	return out
}

// LowerBound is steps + |remaining targets|: a trivially admissible lower
// bound on the length of any completion, since every outstanding target
// needs at least one more move to reach.
func (s *SearchState) LowerBound() int {
	return s.steps + s.targets.Len()
}

// IsComplete reports whether every target has been visited.
func (s *SearchState) IsComplete() bool {
	return s.targets.Len() == 0
}

// Equal reports deep equality, used by serialization round-trip tests.
func (s *SearchState) Equal(o *SearchState) bool {
	if s.steps != o.steps || len(s.history) != len(o.history) {
		return false
	}
	for i := range s.history {
		if s.history[i] != o.history[i] {
			return false
		}
	}
	return s.targets.Equal(o.targets)
}

// MarshalBinary produces a compact, round-trippable encoding of the state
// for inter-worker transport (spec §6). Both the move history and the
// remaining-target list are differentially encoded: each coordinate after
// the first is stored as a zigzag-varint delta from its predecessor, which
// keeps nearby knight moves (deltas of at most 2) to a byte or two apiece.
func (s *SearchState) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	putUvarint(&buf, uint64(s.steps))
	putCoordList(&buf, s.history)
	putCoordList(&buf, s.targets.coords)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary. It returns
// ErrMalformedState (wrapped with context) on any structural problem.
func (s *SearchState) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	steps, err := binary.ReadUvarint(r)
	if err != nil {
		return errors.Wrap(ErrMalformedState, "steps")
	}
	history, err := getCoordList(r)
	if err != nil {
		return errors.Wrap(ErrMalformedState, "history")
	}
	if len(history) == 0 {
		return errors.Wrap(ErrMalformedState, "empty history")
	}
	targets, err := getCoordList(r)
	if err != nil {
		return errors.Wrap(ErrMalformedState, "targets")
	}

	s.steps = int(steps)
	s.history = history
	s.targets = &TargetSet{coords: targets}
	return nil
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putVarint(buf *bytes.Buffer, v int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putCoordList(buf *bytes.Buffer, coords []Coordinate) {
	putUvarint(buf, uint64(len(coords)))
	var prev Coordinate
	for _, c := range coords {
		putVarint(buf, int64(c.Row-prev.Row))
		putVarint(buf, int64(c.Col-prev.Col))
		prev = c
	}
}

func getCoordList(r *bytes.Reader) ([]Coordinate, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]Coordinate, 0, n)
	var prev Coordinate
	for i := uint64(0); i < n; i++ {
		dr, err := binary.ReadVarint(r)
		if err != nil {
			return nil, err
		}
		dc, err := binary.ReadVarint(r)
		if err != nil {
			return nil, err
		}
		cur := Coordinate{Row: prev.Row + int(dr), Col: prev.Col + int(dc)}
		out = append(out, cur)
		prev = cur
	}
	return out, nil
}

// Serialize and Deserialize are small, explicitly named wrappers over the
// Marshal/Unmarshal pair, matching spec §4.2's serialize()/deserialize()
// naming while staying idiomatic (encoding.BinaryMarshaler/Unmarshaler).
func (s *SearchState) Serialize() ([]byte, error) { return s.MarshalBinary() }

func Deserialize(data []byte) (*SearchState, error) {
	s := &SearchState{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}
