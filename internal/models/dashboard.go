package models

// FeeTotals aggregates outstanding fee volume.
type FeeTotals struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// DashboardSummary is the aggregate payload for the admin dashboard.
type DashboardSummary struct {
	TotalStudents   int               `json:"total_students"`
	PendingFees     FeeTotals         `json:"pending_fees"`
	RoomTypes       []RoomTypeCount   `json:"room_types"`
	HostelOccupancy []HostelOccupancy `json:"hostel_occupancy"`
	RoomsAtCapacity int               `json:"rooms_at_capacity"`
	TotalRooms      int               `json:"total_rooms"`
	AvailableBeds   int               `json:"available_beds"`
}
