package models

// Room type categories as declared by administration.
const (
	RoomTypeSingle    = "Single"
	RoomTypeDouble    = "Double"
	RoomTypeTriple    = "Triple"
	RoomTypeDormitory = "Dormitory"
)

// Room represents a hostel room with a fixed capacity.
type Room struct {
	RoomNo   int    `db:"room_no" json:"room_no"`
	Capacity int    `db:"capacity" json:"capacity"`
	RoomType string `db:"room_type" json:"room_type"`
}

// RoomOccupancy pairs a room with its current occupant count. The count
// is always derived from student rows, never cached independently.
type RoomOccupancy struct {
	RoomNo    int `db:"room_no" json:"room_no"`
	Capacity  int `db:"capacity" json:"capacity"`
	Occupancy int `db:"occupancy" json:"occupancy"`
}

// HasSpace reports whether the room can accept another occupant.
func (o RoomOccupancy) HasSpace() bool {
	return o.Occupancy < o.Capacity
}

// RoomFilter encapsulates allowed search parameters for listing rooms.
type RoomFilter struct {
	RoomType  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// RoomTypeCount is a dashboard aggregate of rooms per type.
type RoomTypeCount struct {
	RoomType string `db:"room_type" json:"room_type"`
	Count    int    `db:"count" json:"count"`
}
