package client_routing

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/infrastructure/wire"
)

// Handshake performs the client side of the session setup over an already
// connected UDP socket: send Request, await Response{id, token}. The
// connected socket guarantees replies come from the exact server address.
//
// Each attempt is bounded by a read deadline so a lost datagram retries
// instead of wedging the client. Any reply that is not a Response is fatal.
func Handshake(conn application.ConnectionAdapter, logger application.Logger) (uint8, uint64, error) {
	request, marshalErr := wire.Message{Kind: wire.KindRequest}.Marshal()
	if marshalErr != nil {
		return 0, 0, marshalErr
	}

	var buffer [settings.MaxDatagramSize]byte

	for attempt := 1; attempt <= settings.HandshakeAttempts; attempt++ {
		if err := drainWrite(conn, request); err != nil {
			return 0, 0, fmt.Errorf("failed to send request: %v", err)
		}
		logger.Printf("request sent (attempt %d/%d)", attempt, settings.HandshakeAttempts)

		if deadline, ok := conn.(interface{ SetReadDeadline(time.Time) error }); ok {
			if err := deadline.SetReadDeadline(time.Now().Add(settings.HandshakeTimeout)); err != nil {
				return 0, 0, err
			}
		}

		n, readErr := conn.Read(buffer[:])
		if readErr != nil {
			if errors.Is(readErr, os.ErrDeadlineExceeded) {
				logger.Warnf("no response within %s", settings.HandshakeTimeout)
				continue
			}
			return 0, 0, fmt.Errorf("failed to receive response: %v", readErr)
		}

		if deadline, ok := conn.(interface{ SetReadDeadline(time.Time) error }); ok {
			_ = deadline.SetReadDeadline(time.Time{})
		}

		msg, decodeErr := wire.Unmarshal(buffer[:n])
		if decodeErr != nil {
			return 0, 0, fmt.Errorf("failed to decode response: %v", decodeErr)
		}
		if msg.Kind != wire.KindResponse {
			return 0, 0, fmt.Errorf("invalid handshake reply: %s", msg.Kind)
		}

		return msg.ID, msg.Token, nil
	}

	return 0, 0, fmt.Errorf("no response after %d attempts", settings.HandshakeAttempts)
}

// drainWrite advances until the whole buffer has been accepted, tolerating
// partial writes.
func drainWrite(w interface{ Write([]byte) (int, error) }, b []byte) error {
	for sent := 0; sent < len(b); {
		n, err := w.Write(b[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}
