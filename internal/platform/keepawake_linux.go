package platform

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverService   = "org.freedesktop.ScreenSaver"
	screenSaverPath      = "/org/freedesktop/ScreenSaver"
	screenSaverInhibit   = "org.freedesktop.ScreenSaver.Inhibit"
	screenSaverUninhibit = "org.freedesktop.ScreenSaver.UnInhibit"
)

type dbusKeepAwake struct {
	mu      sync.Mutex
	appName string
	conn    *dbus.Conn
	cookie  uint32
	held    bool
}

func newKeepAwake(appName string) KeepAwake {
	return &dbusKeepAwake{appName: appName}
}

func (keeper *dbusKeepAwake) Acquire() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.held {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeepAwakeUnsupported, err)
	}

	object := conn.Object(screenSaverService, dbus.ObjectPath(screenSaverPath))
	call := object.Call(screenSaverInhibit, 0, keeper.appName, "workout timer running")
	if call.Err != nil {
		_ = conn.Close()
		return fmt.Errorf("screensaver inhibit: %w", call.Err)
	}

	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		_ = conn.Close()
		return fmt.Errorf("screensaver inhibit cookie: %w", err)
	}

	keeper.conn = conn
	keeper.cookie = cookie
	keeper.held = true
	return nil
}

func (keeper *dbusKeepAwake) Release() error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.held {
		return nil
	}

	object := keeper.conn.Object(screenSaverService, dbus.ObjectPath(screenSaverPath))
	call := object.Call(screenSaverUninhibit, 0, keeper.cookie)
	closeErr := keeper.conn.Close()
	keeper.conn = nil
	keeper.held = false

	if call.Err != nil {
		return fmt.Errorf("screensaver uninhibit: %w", call.Err)
	}
	if closeErr != nil {
		return fmt.Errorf("close session bus: %w", closeErr)
	}
	return nil
}
