package models

// Hostel identifies a hostel building. Referenced by students and
// employees but otherwise inert for the admission core.
type Hostel struct {
	HostelID int    `db:"hostel_id" json:"hostel_id"`
	Name     string `db:"name" json:"name"`
}

// HostelOccupancy is a dashboard aggregate of residents per hostel.
type HostelOccupancy struct {
	HostelID int    `db:"hostel_id" json:"hostel_id"`
	Name     string `db:"name" json:"name"`
	Students int    `db:"students" json:"students"`
}
