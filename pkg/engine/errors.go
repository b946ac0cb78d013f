package engine

import "github.com/pkg/errors"

// ErrBufferOverflow is the "serialization overflow" error kind of spec §7:
// a SearchState's encoded form exceeded MaxPayloadBytes. Fatal by
// contract: the caller chose a board/target count the configured buffer
// cannot carry.
var ErrBufferOverflow = errors.New("engine: serialized search state exceeds MaxPayloadBytes")

func checkPayloadSize(payload []byte) error {
	if len(payload) > MaxPayloadBytes {
		return errors.Wrapf(ErrBufferOverflow, "payload is %d bytes, limit is %d", len(payload), MaxPayloadBytes)
	}
	return nil
}
