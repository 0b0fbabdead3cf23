package models

import "time"

// Student represents a resident admitted to a hostel room.
type Student struct {
	StudentID   string    `db:"student_id" json:"student_id"`
	Name        string    `db:"name" json:"name"`
	Course      string    `db:"course" json:"course"`
	MessPlan    string    `db:"mess_plan" json:"mess_plan"`
	LaundryPlan string    `db:"laundry_plan" json:"laundry_plan"`
	HostelID    int       `db:"hostel_id" json:"hostel_id"`
	RoomNo      *int      `db:"room_no" json:"room_no,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	HostelID  int
	RoomNo    int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentDetail contains student information with hostel and room context.
type StudentDetail struct {
	Student
	HostelName *string `db:"hostel_name" json:"hostel_name,omitempty"`
	RoomType   *string `db:"room_type" json:"room_type,omitempty"`
}
