package server_routing

import (
	"fmt"
	"net"
	"net/netip"
	"sync"
)

var errMockClosed = fmt.Errorf("mock listener closed: %w", net.ErrClosed)

type mockLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
}

func (l *mockLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *mockLogger) Warnf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func (l *mockLogger) warningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

type sentDatagram struct {
	payload []byte
	peer    netip.AddrPort
}

type inboundDatagram struct {
	payload []byte
	peer    netip.AddrPort
}

// mockListener plays back scripted datagrams and records everything sent.
type mockListener struct {
	inbound []inboundDatagram
	sent    []sentDatagram
}

func (m *mockListener) ReadFromUDPAddrPort(b []byte) (int, netip.AddrPort, error) {
	if len(m.inbound) == 0 {
		return 0, netip.AddrPort{}, errMockClosed
	}
	datagram := m.inbound[0]
	m.inbound = m.inbound[1:]
	return copy(b, datagram.payload), datagram.peer, nil
}

func (m *mockListener) WriteToUDPAddrPort(b []byte, peer netip.AddrPort) (int, error) {
	m.sent = append(m.sent, sentDatagram{payload: append([]byte(nil), b...), peer: peer})
	return len(b), nil
}

func (m *mockListener) Close() error { return nil }

type mockWriter struct {
	written   []byte
	chunkSize int
}

func (w *mockWriter) Write(b []byte) (int, error) {
	n := len(b)
	if w.chunkSize > 0 && n > w.chunkSize {
		n = w.chunkSize
	}
	w.written = append(w.written, b[:n]...)
	return n, nil
}

type mockReader struct {
	frames [][]byte
}

func (r *mockReader) Read(b []byte) (int, error) {
	if len(r.frames) == 0 {
		return 0, errMockClosed
	}
	frame := r.frames[0]
	r.frames = r.frames[1:]
	return copy(b, frame), nil
}
