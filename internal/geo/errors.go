package geo

import "github.com/pkg/errors"

// Errors returned by the codec. Callers match them with errors.Is; the
// returned values are wrapped with the location of the failure.
var (
	ErrInvalidGeometryType     = errors.New("invalid geometry type")
	ErrInvalidCoordinates      = errors.New("invalid coordinates")
	ErrInvalidIdType           = errors.New("invalid type for the 'id' member")
	ErrMissingRequiredMember   = errors.New("feature members must be exactly type, id, properties and geometry")
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	ErrMalformedInput          = errors.New("input is not a valid json document")
	ErrIoUnavailable           = errors.New("path could not be opened")
)
