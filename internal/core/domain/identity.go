package domain

// Identity is what a verified token tells us about the caller.
type Identity struct {
	SubjectID string
	Email     string
}
