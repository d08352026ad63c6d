package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	shapeReady bool
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}

	// SHAPE is optional: without it the input region cannot be emptied and
	// click-through reports an error instead.
	if err := shape.Init(xu.Conn()); err == nil {
		c.shapeReady = true
	}

	return c, nil
}

// HasShape reports whether the SHAPE extension is available.
func (c *Connection) HasShape() bool {
	return c != nil && c.shapeReady
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

func (c *Connection) requireShape() error {
	if !c.HasShape() {
		return fmt.Errorf("X server does not support the SHAPE extension")
	}
	return nil
}
