package model

type FlagType string

const (
	FlagStart FlagType = "START"
	FlagStop  FlagType = "STOP"
	FlagEnd   FlagType = "END"
)

type SegmentationMethod string

const (
	MethodMarkers SegmentationMethod = "MARKERS"
	MethodSpeed   SegmentationMethod = "SPEED"
)

type ProcessMode string

const (
	// ModeCurrent bounds the workday by actual customer contact:
	// first and last client-visit stops.
	ModeCurrent ProcessMode = "CURRENT"
	// ModeNew bounds the workday by motion intent: earliest marker or
	// movement through latest marker or movement.
	ModeNew ProcessMode = "NEW"
)

// TripEvent is a single normalized GPS sample. Time is a zone-converted
// HH:MM:SS wall-clock string.
type TripEvent struct {
	Seq         int     `json:"seq"`
	Time        string  `json:"time"`
	Description string  `json:"description"`
	Speed       float64 `json:"speed"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ClientMatch carries the identity of the client a stop was matched to.
type ClientMatch struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	BranchNumber string `json:"branchNumber,omitempty"`
	BranchName   string `json:"branchName,omitempty"`
	IsHomeBase   bool   `json:"isHomeBase"`
}

// Flag is a classified point of interest on the route. DurationMin and
// StopNumber are meaningful only for STOP flags. Client is set only when
// a STOP matched a client within the matching radius.
type Flag struct {
	Type        FlagType     `json:"type"`
	Lat         float64      `json:"lat"`
	Lng         float64      `json:"lng"`
	Time        string       `json:"time"`
	Description string       `json:"description,omitempty"`
	DurationMin float64      `json:"durationMin,omitempty"`
	StopNumber  int          `json:"stopNumber,omitempty"`
	Client      *ClientMatch `json:"client,omitempty"`
}

func (f Flag) IsStop() bool {
	return f.Type == FlagStop
}

// IsClientVisit reports whether the flag is a stop matched to a real
// customer, i.e. not a home base and not one of the special keys.
func (f Flag) IsClientVisit(specialKeys map[string]bool) bool {
	if f.Type != FlagStop || f.Client == nil {
		return false
	}
	if f.Client.IsHomeBase {
		return false
	}
	return !specialKeys[f.Client.Key]
}

// ProcessedTrip is the fully derived trip record. Consumers treat it as
// immutable; re-matching against a new client set produces a new Flags
// slice rather than mutating this one.
type ProcessedTrip struct {
	Events         []TripEvent        `json:"events"`
	Route          []LatLng           `json:"route"`
	Flags          []Flag             `json:"flags"`
	TotalDistanceM float64            `json:"totalDistanceM"`
	Method         SegmentationMethod `json:"processingMethod"`
	InitialMoving  bool               `json:"initialMoving"`
	OngoingAtEnd   bool               `json:"ongoingAtEnd"`
	WorkStartTime  string             `json:"workStartTime"`
	WorkEndTime    string             `json:"workEndTime"`
}

// VehicleInfo is metadata pulled from the trip file header rows.
type VehicleInfo struct {
	Description string `json:"description"`
	VehicleType string `json:"vehicleType"`
	Plate       string `json:"plate"`
	Date        string `json:"date"`
}
