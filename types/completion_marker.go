package types

// CompletionMarker records that a subject was completed on a given day for one destination.
type CompletionMarker struct {
	Endpoint  string `json:"endpoint"`
	SubjectID string `json:"subjectId"`
	DayKey    string `json:"dayKey"`
}

// Member is the identity of the marker inside its day bucket.
func (m CompletionMarker) Member() string {
	return m.Endpoint + "::" + m.SubjectID
}

func (m CompletionMarker) IsValid() bool {
	return m.Endpoint != "" && m.SubjectID != "" && m.DayKey != ""
}
