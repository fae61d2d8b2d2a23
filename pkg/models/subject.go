package models

// Subject is a top-level study area. Topics is derived by the store from the
// topic collection on every read and is never stored on the subject itself.
type Subject struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Topics []*Topic `json:"topics"`
}

// Topic is a unit of study within a subject.
type Topic struct {
	ID         string     `json:"id"`
	SubjectID  string     `json:"subjectId"`
	Title      string     `json:"title"`
	Confidence Confidence `json:"confidence"`
}
