package client_routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/infrastructure/wire"
)

// TransportHandler forwards datagrams received from the server to the TUN
// device. Data messages are token-gated and decompressed; anything else is
// dropped with a warning. The id field of incoming Data is ignored.
type TransportHandler struct {
	ctx    context.Context
	conn   application.ConnectionAdapter
	writer io.Writer
	token  uint64
	logger application.Logger
}

func NewTransportHandler(
	ctx context.Context,
	conn application.ConnectionAdapter,
	writer io.Writer,
	token uint64,
	logger application.Logger,
) *TransportHandler {
	return &TransportHandler{
		ctx:    ctx,
		conn:   conn,
		writer: writer,
		token:  token,
		logger: logger,
	}
}

func (t *TransportHandler) HandleTransport() error {
	var buffer [settings.MaxDatagramSize]byte
	scratch := make([]byte, settings.MaxDatagramSize)

	for {
		select {
		case <-t.ctx.Done():
			return nil
		default:
			n, readErr := t.conn.Read(buffer[:])
			if readErr != nil {
				if t.ctx.Err() != nil {
					return nil
				}
				if errors.Is(readErr, os.ErrDeadlineExceeded) {
					continue
				}
				return fmt.Errorf("failed to read from socket: %v", readErr)
			}
			if n == len(buffer) {
				t.logger.Warnf("datagram dropped: fills the %d-byte scratch buffer", len(buffer))
				continue
			}

			msg, decodeErr := wire.Unmarshal(buffer[:n])
			if decodeErr != nil {
				t.logger.Warnf("datagram dropped: %v", decodeErr)
				continue
			}

			switch msg.Kind {
			case wire.KindRequest, wire.KindResponse:
				t.logger.Warnf("unexpected %s message dropped", msg.Kind)
			case wire.KindData:
				if msg.Token != t.token {
					t.logger.Warnf("token mismatched. received: %d. expected: %d", msg.Token, t.token)
					continue
				}
				packet, decompressErr := wire.Decompress(scratch, msg.Data)
				if decompressErr != nil {
					t.logger.Warnf("datagram dropped: %v", decompressErr)
					continue
				}
				if err := drainWrite(t.writer, packet); err != nil {
					if t.ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("failed to write to TUN: %v", err)
				}
			}
		}
	}
}
