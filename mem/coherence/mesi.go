package coherence

// MESI is the write-invalidate protocol with Modified, Exclusive, Shared,
// and Invalid states.
type MESI struct {
}

// NewMESI returns a MESI policy.
func NewMESI() MESI {
	return MESI{}
}

// DefaultState of MESI is Invalid.
func (MESI) DefaultState() State {
	return StateInvalid
}

// CanRead allows reads from any state but Invalid.
func (MESI) CanRead(s State) bool {
	return s != StateInvalid
}

// CanWrite allows silent writes from any state but Shared. A write to an
// Invalid line is classified as a miss before this check is reached.
func (MESI) CanWrite(s State) bool {
	return s != StateShared
}

// OnReadMiss installs the line Shared if the snoop found the block in a peer
// cache, Exclusive otherwise.
func (MESI) OnReadMiss(s State, hasSharer bool) State {
	if s != StateInvalid {
		return s
	}

	if hasSharer {
		return StateShared
	}
	return StateExclusive
}

// OnWrite moves the line to Modified.
func (MESI) OnWrite(s State) State {
	return StateModified
}

// OnSnoopRead demotes Modified and Exclusive lines to Shared.
func (MESI) OnSnoopRead(s State) State {
	if s == StateModified || s == StateExclusive {
		return StateShared
	}
	return s
}

// OnSnoopWrite invalidates the line.
func (MESI) OnSnoopWrite(s State) State {
	return StateInvalid
}
