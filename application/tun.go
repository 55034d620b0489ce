package application

import "io"

// TunDevice is a configured virtual network interface delivering and
// accepting raw IP packets as file I/O.
type TunDevice interface {
	io.ReadWriteCloser
	Name() string
}
