package tun

import (
	"errors"
	"fmt"

	"github.com/jessiex/kytan/application"
)

var ErrNoFreeDevice = errors.New("unable to create TUN device")

// OpenFunc opens a TUN device with the given interface name.
type OpenFunc func(name string) (application.TunDevice, error)

// Attempt walks tun0..tun<maxIndex> and returns the first device that opens.
// Names already claimed by other processes simply fail and the next index is
// tried; only a fully exhausted ladder is an error.
func Attempt(open OpenFunc, maxIndex int) (application.TunDevice, error) {
	for i := 0; i <= maxIndex; i++ {
		device, err := open(fmt.Sprintf("tun%d", i))
		if err == nil {
			return device, nil
		}
	}
	return nil, ErrNoFreeDevice
}
