package timer

// Actor identifies the host and user an utterance came from.
type Actor struct {
	// Hostname is the machine the request was sent from.
	Hostname string
	// Username is the system user who sent it.
	Username string
}

// Clone returns a copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return ""
	}

	return a.Username + "@" + a.Hostname
}
