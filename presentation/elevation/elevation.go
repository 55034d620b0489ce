package elevation

import "os"

type ProcessElevation struct {
}

func NewProcessElevation() *ProcessElevation {
	return &ProcessElevation{}
}

// IsElevated reports whether the process can perform privileged network
// setup (TUN creation, route changes).
func (p *ProcessElevation) IsElevated() bool {
	return os.Geteuid() == 0
}
