package tun

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jessiex/kytan/application"
)

type fakeDevice struct {
	io.ReadWriteCloser
	name string
}

func (d *fakeDevice) Name() string { return d.name }

func TestAttempt_FirstFreeIndexWins(t *testing.T) {
	var tried []string
	open := func(name string) (application.TunDevice, error) {
		tried = append(tried, name)
		if len(tried) < 3 {
			return nil, errors.New("device busy")
		}
		return &fakeDevice{name: name}, nil
	}

	device, err := Attempt(open, 254)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if device.Name() != "tun2" {
		t.Fatalf("device = %s, want tun2", device.Name())
	}
	if len(tried) != 3 || tried[0] != "tun0" || tried[1] != "tun1" {
		t.Fatalf("tried = %v, want [tun0 tun1 tun2]", tried)
	}
}

func TestAttempt_ExhaustsWholeLadder(t *testing.T) {
	var count int
	open := func(name string) (application.TunDevice, error) {
		count++
		return nil, fmt.Errorf("cannot open %s", name)
	}

	if _, err := Attempt(open, 254); !errors.Is(err, ErrNoFreeDevice) {
		t.Fatalf("err = %v, want ErrNoFreeDevice", err)
	}
	if count != 255 {
		t.Fatalf("attempts = %d, want 255 (tun0..tun254)", count)
	}
}
