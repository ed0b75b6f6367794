package core

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidNode        = errors.New("invalid scene node")
	ErrAlreadyParented    = errors.New("node already has a parent")
	ErrCycleDetected      = errors.New("cycle detected on attach")
	ErrInvalidGeometry    = errors.New("geometry handle and index count disagree")
	ErrMeshLengthMismatch = errors.New("mesh buffer length mismatch")
	ErrIndexOutOfRange    = errors.New("mesh index out of range")
	ErrEmptyPath          = errors.New("path has no waypoints")
	ErrMalformedWaypoint  = errors.New("malformed waypoint record")
	ErrUnknownResource    = errors.New("unknown resource type")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrUnknown            = errors.New("unknown")
)
