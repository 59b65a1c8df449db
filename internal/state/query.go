package state

// LockMode selects the row lock taken on the registry entry while reading
// its states.
type LockMode int

const (
	LockNone LockMode = iota
	// LockShare blocks concurrent writers of the entry until the caller's
	// transaction ends.
	LockShare
	// LockUpdate additionally blocks other share and update lockers.
	LockUpdate
)

func (m LockMode) String() string {
	switch m {
	case LockShare:
		return "share"
	case LockUpdate:
		return "update"
	}
	return "none"
}

// QueryOptions tunes an active-state query.
type QueryOptions struct {
	// ExternalOnly restricts the result to flags registrars may observe.
	ExternalOnly bool
	Lock         LockMode
}

// ObjectStates is the set of active state names of one registry entry.
type ObjectStates struct {
	ObjectID uint64
	Names    []string
}
