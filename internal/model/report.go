package model

// StopRow is one line of the stops table in a visit report.
type StopRow struct {
	Number     int
	Time       string
	Duration   string
	ClientKey  string
	ClientName string
	Branch     string
	Lat        float64
	Lng        float64
	Matched    bool
}

// TripReport is everything the Excel/PDF generators need to render a
// per-day visit report for one vehicle.
type TripReport struct {
	Vehicle       VehicleInfo
	Mode          ProcessMode
	Method        SegmentationMethod
	WorkStartTime string
	WorkEndTime   string
	TotalKm       float64
	TotalStops    int
	VisitedStops  int
	Stops         []StopRow
}
