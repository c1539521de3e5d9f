package platform

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

const (
	esContinuous      = 0x80000000
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	setThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

type executionStateKeepAwake struct {
	mu   sync.Mutex
	held bool
}

func newKeepAwake(string) KeepAwake {
	return &executionStateKeepAwake{}
}

func (keeper *executionStateKeepAwake) Acquire() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.held {
		return nil
	}

	result, _, err := setThreadExecutionState.Call(esContinuous | esSystemRequired | esDisplayRequired)
	if result == 0 {
		return fmt.Errorf("set thread execution state: %w", err)
	}
	keeper.held = true
	return nil
}

func (keeper *executionStateKeepAwake) Release() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.held {
		return nil
	}

	result, _, err := setThreadExecutionState.Call(esContinuous)
	if result == 0 {
		return fmt.Errorf("clear thread execution state: %w", err)
	}
	keeper.held = false
	return nil
}
