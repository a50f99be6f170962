package models

// SeatLayout holds the seat labels of a bus, split by deck
type SeatLayout struct {
	Lower []string `json:"lower"`
	Upper []string `json:"upper"`
}

// All returns every label of the layout, lower deck first
func (l SeatLayout) All() []string {
	all := make([]string, 0, len(l.Lower)+len(l.Upper))
	all = append(all, l.Lower...)
	return append(all, l.Upper...)
}

// SeatAvailability is the seat map of one schedule on one travel date
type SeatAvailability struct {
	ScheduleID     int64      `json:"scheduleId"`
	TravelDate     string     `json:"travelDate"`
	BusType        string     `json:"busType"`
	TotalSeats     int        `json:"totalSeats"`
	AvailableSeats int        `json:"availableSeats"`
	BookedSeats    []string   `json:"bookedSeats"`
	SeatLayout     SeatLayout `json:"seatLayout"`
	Price          float64    `json:"price"`
}

// Conflicts returns the requested seats that are already booked, in request order
func (a *SeatAvailability) Conflicts(requested []string) []string {
	booked := make(map[string]struct{}, len(a.BookedSeats))
	for _, s := range a.BookedSeats {
		booked[s] = struct{}{}
	}
	var conflicts []string
	for _, s := range requested {
		if _, ok := booked[s]; ok {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}
