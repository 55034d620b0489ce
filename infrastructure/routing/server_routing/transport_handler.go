package server_routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/routing/server_routing/session_management"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/infrastructure/wire"
)

// TransportHandler runs the server's UDP read loop: Requests allocate a
// session and get a Response, Data messages are token-gated, decompressed
// and written to the TUN device. The session table is pruned before every
// read so expired identities return to the pool at loop boundaries.
type TransportHandler struct {
	ctx            context.Context
	conn           application.DatagramListener
	writer         io.Writer
	sessionManager session_management.SessionManager
	logger         application.Logger
}

func NewTransportHandler(
	ctx context.Context,
	conn application.DatagramListener,
	writer io.Writer,
	sessionManager session_management.SessionManager,
	logger application.Logger,
) *TransportHandler {
	return &TransportHandler{
		ctx:            ctx,
		conn:           conn,
		writer:         writer,
		sessionManager: sessionManager,
		logger:         logger,
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
			if recycled := t.sessionManager.Prune(); len(recycled) > 0 {
				t.logger.Printf("expired sessions recycled: %v", recycled)
			}

			n, peer, readErr := t.conn.ReadFromUDPAddrPort(buffer[:])
			if readErr != nil {
				if t.ctx.Err() != nil || errors.Is(readErr, net.ErrClosed) {
					return nil
				}
				t.logger.Warnf("failed to read from UDP: %v", readErr)
				continue
			}
			if n == len(buffer) {
				t.logger.Warnf("datagram dropped: fills the %d-byte scratch buffer", len(buffer))
				continue
			}

			msg, decodeErr := wire.Unmarshal(buffer[:n])
			if decodeErr != nil {
				t.logger.Warnf("datagram from %v dropped: %v", peer, decodeErr)
				continue
			}

			switch msg.Kind {
			case wire.KindRequest:
				t.handleRequest(peer)
			case wire.KindResponse:
				t.logger.Warnf("unexpected %s message from %v dropped", msg.Kind, peer)
			case wire.KindData:
				if err := t.handleData(msg, scratch); err != nil {
					if t.ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		}
	}
}

// handleRequest allocates an identity and replies with Response{id, token}.
// An exhausted pool refuses the request by dropping it; the wire protocol
// defines no negative reply.
func (t *TransportHandler) handleRequest(peer netip.AddrPort) {
	session, allocErr := t.sessionManager.Allocate(peer)
	if allocErr != nil {
		t.logger.Warnf("request from %v refused: %v", peer, allocErr)
		return
	}

	t.logger.Printf("got request from %v. assigning IP address: %s",
		peer, settings.AddrForID(session.ID))

	reply, marshalErr := wire.Message{
		Kind:  wire.KindResponse,
		ID:    session.ID,
		Token: session.Token,
	}.Marshal()
	if marshalErr != nil {
		t.logger.Warnf("failed to encode response: %v", marshalErr)
		return
	}

	for sent := 0; sent < len(reply); {
		n, err := t.conn.WriteToUDPAddrPort(reply[sent:], peer)
		if err != nil {
			t.logger.Warnf("failed to send response to %v: %v", peer, err)
			return
		}
		sent += n
	}
}

// handleData validates the claimed identity and token, then forwards the
// decompressed packet to the TUN device. The source address is deliberately
// not used to update the session's peer address.
func (t *TransportHandler) handleData(msg wire.Message, scratch []byte) error {
	session, getErr := t.sessionManager.Get(msg.ID)
	if getErr != nil {
		t.logger.Warnf("data with token %d from unknown id %d dropped", msg.Token, msg.ID)
		return nil
	}
	if session.Token != msg.Token {
		t.logger.Warnf("data with mismatched token %d from id %d dropped. expected: %d",
			msg.Token, msg.ID, session.Token)
		return nil
	}

	packet, decompressErr := wire.Decompress(scratch, msg.Data)
	if decompressErr != nil {
		t.logger.Warnf("data from id %d dropped: %v", msg.ID, decompressErr)
		return nil
	}

	for sent := 0; sent < len(packet); {
		n, err := t.writer.Write(packet[sent:])
		if err != nil {
			return fmt.Errorf("failed to write to TUN: %v", err)
		}
		sent += n
	}
	return nil
}
