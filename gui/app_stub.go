//go:build !ebiten

package gui

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifegrid/driver"
)

// ErrNoGUI is returned when the binary was built without the ebiten tag
var ErrNoGUI = errors.New("the GUI requires building with the 'ebiten' tag: go run -tags ebiten . gui")

// Run always fails in the headless build
func Run(context.Context, *driver.Controller, Options) error {
	return ErrNoGUI
}
