//go:build !ebiten

package gui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikhrachel/lifegrid/driver"
	"github.com/sheikhrachel/lifegrid/model"
)

func TestRunWithoutTag(t *testing.T) {
	err := Run(context.Background(), driver.New(model.NewEngine(10)), Options{})
	assert.ErrorIs(t, err, ErrNoGUI)
}
