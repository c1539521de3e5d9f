package platform

import "errors"

// ErrKeepAwakeUnsupported indicates no sleep inhibitor is available here.
var ErrKeepAwakeUnsupported = errors.New("keep awake unsupported")

// KeepAwake prevents the machine from blanking the screen or sleeping while
// a workout is on the clock. Acquire and Release are idempotent.
type KeepAwake interface {
	Acquire() error
	Release() error
}

// NewKeepAwake returns a platform-specific sleep inhibitor.
func NewKeepAwake(appName string) KeepAwake {
	return newKeepAwake(appName)
}
