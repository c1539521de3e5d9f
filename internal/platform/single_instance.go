package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceLock holds the single-instance lock. Two timers racing over the
// same log files would interleave sessions, so only one instance runs per
// user.
type InstanceLock struct {
	listener net.Listener
}

// LockInstance binds a deterministic localhost port derived from the app
// name and the current user. The bind fails when another instance holds it.
func LockInstance(appName string) (*InstanceLock, error) {
	address := fmt.Sprintf("127.0.0.1:%d", instancePort(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the single-instance lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

func instancePort(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte(os.Getenv("USER")))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
