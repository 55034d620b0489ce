package server_routing

import (
	"context"
	"fmt"
	"io"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/network/ip"
	"github.com/jessiex/kytan/infrastructure/routing/server_routing/session_management"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/infrastructure/wire"
)

// TunHandler forwards packets read from the server's TUN device to clients.
// The inner packet's final destination octet is the session identity;
// packets without a live session are dropped.
type TunHandler struct {
	ctx            context.Context
	reader         io.Reader
	conn           application.DatagramListener
	parser         ip.HeaderParser
	sessionManager session_management.SessionManager
	logger         application.Logger
}

func NewTunHandler(
	ctx context.Context,
	reader io.Reader,
	conn application.DatagramListener,
	parser ip.HeaderParser,
	sessionManager session_management.SessionManager,
	logger application.Logger,
) *TunHandler {
	return &TunHandler{
		ctx:            ctx,
		reader:         reader,
		conn:           conn,
		parser:         parser,
		sessionManager: sessionManager,
		logger:         logger,
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

			id, parseErr := t.parser.DestinationID(buffer[:n])
			if parseErr != nil {
				t.logger.Warnf("packet dropped: %v", parseErr)
				continue
			}

			session, getErr := t.sessionManager.Get(id)
			if getErr != nil {
				t.logger.Warnf("packet from TUN for unknown client %d dropped", id)
				continue
			}

			msg := wire.Message{
				Kind:  wire.KindData,
				ID:    session.ID,
				Token: session.Token,
				Data:  wire.Compress(scratch, buffer[:n]),
			}
			encoded, marshalErr := msg.Marshal()
			if marshalErr != nil {
				t.logger.Warnf("packet dropped: %v", marshalErr)
				continue
			}

			for sent := 0; sent < len(encoded); {
				written, err := t.conn.WriteToUDPAddrPort(encoded[sent:], session.Peer)
				if err != nil {
					t.logger.Warnf("failed to send packet to %v: %v", session.Peer, err)
					break
				}
				sent += written
			}
		}
	}
}
