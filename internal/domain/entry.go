package domain

// ScheduleEntry is one normalized class session derived from a raw table row.
// It has no identity beyond its position in the derived sequence.
type ScheduleEntry struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	ClassBatch string `json:"class_batch"`
	CourseName string `json:"course_name"`
	Faculty    string `json:"faculty"`
	Venue      string `json:"venue"`
}
