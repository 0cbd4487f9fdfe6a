package game

// Mode is a module's advertised stance on whether an operation (joining the
// game, starting a round) is currently permitted. A closed mode carries a
// human-readable reason which is forwarded verbatim to refused players.
type Mode struct {
	open   bool
	reason string
}

// Open returns a mode permitting the operation.
func Open() Mode { return Mode{open: true} }

// Closed returns a mode refusing the operation for the given reason.
func Closed(reason string) Mode { return Mode{reason: reason} }

// IsOpen reports whether the operation is permitted.
func (m Mode) IsOpen() bool { return m.open }

// Reason returns the refusal reason. It is empty for open modes.
func (m Mode) Reason() string { return m.reason }
