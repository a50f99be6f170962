package models

// Departure time bands accepted by bus search
const (
	DepartureMorning   = "morning"
	DepartureAfternoon = "afternoon"
	DepartureEvening   = "evening"
	DepartureNight     = "night"
)

// SearchBusesRequest represents bus search query parameters
type SearchBusesRequest struct {
	Source        string   `form:"source" binding:"required"`
	Destination   string   `form:"destination" binding:"required"`
	TravelDate    string   `form:"travelDate" binding:"required,busdate"`
	BusType       string   `form:"busType"`
	MinPrice      *float64 `form:"minPrice" binding:"omitempty,gt=0"`
	MaxPrice      *float64 `form:"maxPrice" binding:"omitempty,gt=0"`
	DepartureTime string   `form:"departureTime" binding:"omitempty,oneof=morning afternoon evening night"`
}

// ScheduleSearchRow is one matching schedule as read from the store
type ScheduleSearchRow struct {
	ScheduleID      int64     `db:"schedule_id"`
	BusNumber       string    `db:"bus_number"`
	OperatorName    string    `db:"operator_name"`
	BusType         string    `db:"bus_type"`
	DepartureTime   string    `db:"departure_time"`
	ArrivalTime     string    `db:"arrival_time"`
	Price           float64   `db:"price"`
	TotalSeats      int       `db:"total_seats"`
	Amenities       Amenities `db:"amenities"`
	Rating          float64   `db:"rating"`
	SourceCity      string    `db:"source_city"`
	DestinationCity string    `db:"destination_city"`
	BookedSeats     int       `db:"booked_seats"`
}

// BusSearchResult is one bus in the search response
type BusSearchResult struct {
	ScheduleID     int64       `json:"scheduleId"`
	BusNumber      string      `json:"busNumber"`
	OperatorName   string      `json:"operatorName"`
	BusType        string      `json:"busType"`
	DepartureTime  string      `json:"departureTime"`
	ArrivalTime    string      `json:"arrivalTime"`
	Duration       string      `json:"duration"`
	Price          float64     `json:"price"`
	AvailableSeats int         `json:"availableSeats"`
	TotalSeats     int         `json:"totalSeats"`
	Rating         float64     `json:"rating"`
	Amenities      Amenities   `json:"amenities"`
	BoardingPoints []StopPoint `json:"boardingPoints"`
	DroppingPoints []StopPoint `json:"droppingPoints"`
}
