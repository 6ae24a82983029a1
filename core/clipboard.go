package core

// Clipboard copies display text (a student's location, a contact number) for
// the user. Fire-and-forget from the caller's point of view: failures are
// logged, never propagated into a workflow.
type Clipboard interface {
	Copy(text string) error
}
