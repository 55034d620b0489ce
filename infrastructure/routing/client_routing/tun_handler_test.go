package client_routing

import (
	"bytes"
	"context"
	"testing"

	"github.com/jessiex/kytan/infrastructure/wire"
)

func TestHandleTun_SendsCompressedDataMessage(t *testing.T) {
	packet := bytes.Repeat([]byte{0x45, 0x00, 0x33}, 150)
	tun := &mockReader{frames: [][]byte{packet}}
	conn := &mockConn{}

	handler := NewTunHandler(context.Background(), tun, conn, 253, testToken, &mockLogger{})
	if err := handler.HandleTun(); err == nil {
		t.Fatal("expected error once the TUN reader is exhausted")
	}

	if len(conn.written) != 1 {
		t.Fatalf("datagrams sent = %d, want 1", len(conn.written))
	}

	msg, err := wire.Unmarshal(conn.written[0])
	if err != nil {
		t.Fatalf("sent datagram does not decode: %v", err)
	}
	if msg.Kind != wire.KindData || msg.ID != 253 || msg.Token != testToken {
		t.Fatalf("sent message header = %+v, want Data id=253 token=%#x", msg, testToken)
	}

	decompressed, err := wire.Decompress(nil, msg.Data)
	if err != nil {
		t.Fatalf("payload does not decompress: %v", err)
	}
	if !bytes.Equal(decompressed, packet) {
		t.Fatal("decompressed payload differs from the TUN frame")
	}
}

func TestHandleTun_ForwardsEveryFrame(t *testing.T) {
	frames := [][]byte{
		bytes.Repeat([]byte{0x01}, 40),
		bytes.Repeat([]byte{0x02}, 1320),
		{0x45},
	}
	tun := &mockReader{frames: frames}
	conn := &mockConn{}

	handler := NewTunHandler(context.Background(), tun, conn, 7, 1, &mockLogger{})
	_ = handler.HandleTun()

	if len(conn.written) != len(frames) {
		t.Fatalf("datagrams sent = %d, want %d", len(conn.written), len(frames))
	}
	for i, frame := range frames {
		msg, err := wire.Unmarshal(conn.written[i])
		if err != nil {
			t.Fatalf("datagram %d does not decode: %v", i, err)
		}
		decompressed, err := wire.Decompress(nil, msg.Data)
		if err != nil {
			t.Fatalf("datagram %d does not decompress: %v", i, err)
		}
		if !bytes.Equal(decompressed, frame) {
			t.Fatalf("datagram %d payload mismatch", i)
		}
	}
}

func TestHandleTun_ReturnsNilOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewTunHandler(ctx, &mockReader{}, &mockConn{}, 2, 1, &mockLogger{})
	if err := handler.HandleTun(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
