package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	ErrDuplicateUUID     = errors.New("step uuid already exists")
	ErrStepNotFound      = errors.New("step not found")
	ErrInvalidStep       = errors.New("step uuid must be set")
	ErrSelfLoop          = errors.New("a step cannot connect to itself")
	ErrDuplicateEdge     = errors.New("connection already exists")
	ErrCycleInducing     = errors.New("connection would create a cycle")
)
