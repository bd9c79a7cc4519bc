package trip

import "errors"

// Sentinel errors surfaced verbatim to the uploading user. Structural
// problems (header/columns) live in the sheet package; these cover the
// content of an otherwise well-formed file.
var (
	ErrNoValidEvents = errors.New("no se encontraron eventos válidos con coordenadas GPS")
	ErrNoMovement    = errors.New("no se detectó movimiento del vehículo")
	ErrNoMarkers     = errors.New("no se encontraron marcadores de inicio y fin de viaje")
)
