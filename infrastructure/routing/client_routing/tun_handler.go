package client_routing

import (
	"context"
	"fmt"
	"io"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/infrastructure/wire"
)

// TunHandler forwards packets read from the TUN device to the server:
// compress, wrap as Data with the session identity, send.
type TunHandler struct {
	ctx    context.Context
	reader io.Reader
	conn   application.ConnectionAdapter
	id     uint8
	token  uint64
	logger application.Logger
}

func NewTunHandler(
	ctx context.Context,
	reader io.Reader,
	conn application.ConnectionAdapter,
	id uint8,
	token uint64,
	logger application.Logger,
) *TunHandler {
	return &TunHandler{
		ctx:    ctx,
		reader: reader,
		conn:   conn,
		id:     id,
		token:  token,
		logger: logger,
	}
}

func (t *TunHandler) HandleTun() error {
	var buffer [settings.MaxDatagramSize]byte
	scratch := make([]byte, wire.MaxCompressedLen(settings.MaxDatagramSize))

	for {
		select {
		case <-t.ctx.Done():
			return nil
		default:
			n, readErr := t.reader.Read(buffer[:])
			if readErr != nil {
				if t.ctx.Err() != nil {
					return nil
				}
				if readErr == io.EOF {
					return fmt.Errorf("TUN interface closed: %v", readErr)
				}
				return fmt.Errorf("failed to read from TUN: %v", readErr)
			}

			msg := wire.Message{
				Kind:  wire.KindData,
				ID:    t.id,
				Token: t.token,
				Data:  wire.Compress(scratch, buffer[:n]),
			}
			encoded, marshalErr := msg.Marshal()
			if marshalErr != nil {
				t.logger.Warnf("packet dropped: %v", marshalErr)
				continue
			}

			if err := drainWrite(t.conn, encoded); err != nil {
				if t.ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to send packet: %v", err)
			}
		}
	}
}
