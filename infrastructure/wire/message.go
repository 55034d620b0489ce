package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind discriminates the three message variants carried over UDP.
type Kind uint32

const (
	KindRequest Kind = iota
	KindResponse
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "Request"
	case KindResponse:
		return "Response"
	case KindData:
		return "Data"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

// Message is the wire-level tagged union. One UDP datagram carries exactly
// one encoded message; there is no stream framing.
//
// Layout (all integers little-endian):
//
//	Request:  tag u32
//	Response: tag u32 | id u8 | token u64
//	Data:     tag u32 | id u8 | token u64 | len u64 | payload
//
// ID and Token are meaningful for Response and Data only; Data carries the
// snappy-compressed inner IP packet.
type Message struct {
	Kind  Kind
	ID    uint8
	Token uint64
	Data  []byte
}

const (
	tagSize = 4

	// DataOverhead is the encoded size of a Data message minus its payload:
	// tag, id, token and the payload length prefix.
	DataOverhead = tagSize + 1 + 8 + 8

	responseSize = tagSize + 1 + 8
)

var (
	ErrTruncated  = errors.New("truncated message")
	ErrUnknownTag = errors.New("unknown message tag")
	ErrTrailing   = errors.New("trailing bytes after message")
)

// Marshal encodes m into a freshly allocated buffer.
func (m Message) Marshal() ([]byte, error) {
	switch m.Kind {
	case KindRequest:
		out := make([]byte, tagSize)
		binary.LittleEndian.PutUint32(out, uint32(KindRequest))
		return out, nil
	case KindResponse:
		out := make([]byte, responseSize)
		binary.LittleEndian.PutUint32(out, uint32(KindResponse))
		out[tagSize] = m.ID
		binary.LittleEndian.PutUint64(out[tagSize+1:], m.Token)
		return out, nil
	case KindData:
		out := make([]byte, DataOverhead+len(m.Data))
		binary.LittleEndian.PutUint32(out, uint32(KindData))
		out[tagSize] = m.ID
		binary.LittleEndian.PutUint64(out[tagSize+1:], m.Token)
		binary.LittleEndian.PutUint64(out[tagSize+9:], uint64(len(m.Data)))
		copy(out[DataOverhead:], m.Data)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint32(m.Kind))
	}
}

// Unmarshal decodes a single message from b. The returned Data slice aliases
// b; callers that retain it past the next read must copy.
func Unmarshal(b []byte) (Message, error) {
	if len(b) < tagSize {
		return Message{}, ErrTruncated
	}
	tag := Kind(binary.LittleEndian.Uint32(b))

	switch tag {
	case KindRequest:
		if len(b) != tagSize {
			return Message{}, ErrTrailing
		}
		return Message{Kind: KindRequest}, nil
	case KindResponse:
		if len(b) < responseSize {
			return Message{}, ErrTruncated
		}
		if len(b) != responseSize {
			return Message{}, ErrTrailing
		}
		return Message{
			Kind:  KindResponse,
			ID:    b[tagSize],
			Token: binary.LittleEndian.Uint64(b[tagSize+1:]),
		}, nil
	case KindData:
		if len(b) < DataOverhead {
			return Message{}, ErrTruncated
		}
		length := binary.LittleEndian.Uint64(b[tagSize+9:])
		payload := b[DataOverhead:]
		if length > uint64(len(payload)) {
			return Message{}, ErrTruncated
		}
		if length < uint64(len(payload)) {
			return Message{}, ErrTrailing
		}
		return Message{
			Kind:  KindData,
			ID:    b[tagSize],
			Token: binary.LittleEndian.Uint64(b[tagSize+1:]),
			Data:  payload,
		}, nil
	default:
		return Message{}, fmt.Errorf("%w: %d", ErrUnknownTag, uint32(tag))
	}
}
