package platform

import (
	"fmt"
	"os/exec"
	"sync"
)

type caffeinateKeepAwake struct {
	mu   sync.Mutex
	path string
	cmd  *exec.Cmd
}

func newKeepAwake(string) KeepAwake {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return unsupportedKeepAwake{}
	}
	return &caffeinateKeepAwake{path: path}
}

func (keeper *caffeinateKeepAwake) Acquire() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.cmd != nil {
		return nil
	}

	// -d keeps the display on, -i prevents idle sleep. The child lives for
	// as long as the lock is held.
	cmd := exec.Command(keeper.path, "-d", "-i")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start caffeinate: %w", err)
	}
	keeper.cmd = cmd
	return nil
}

func (keeper *caffeinateKeepAwake) Release() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.cmd == nil {
		return nil
	}

	if err := keeper.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	_ = keeper.cmd.Wait()
	keeper.cmd = nil
	return nil
}

type unsupportedKeepAwake struct{}

func (unsupportedKeepAwake) Acquire() error {
	return ErrKeepAwakeUnsupported
}

func (unsupportedKeepAwake) Release() error {
	return nil
}
