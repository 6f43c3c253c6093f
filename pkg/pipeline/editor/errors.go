package editor

import "github.com/pkg/errors"

var ErrViewportMustBeSet = errors.New("viewport must be set")
