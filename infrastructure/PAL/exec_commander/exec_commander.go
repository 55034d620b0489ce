package exec_commander

import (
	"os/exec"

	"github.com/jessiex/kytan/infrastructure/PAL"
)

type ExecCommander struct {
}

func NewExecCommander() PAL.Commander {
	return &ExecCommander{}
}

func (r *ExecCommander) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (r *ExecCommander) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}
