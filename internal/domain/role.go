package domain

// Role is a per-channel property. It decides who receives speech relays.
type Role uint8

const (
	RoleParticipant Role = iota
	RoleInterpreter
)

func RoleFromSigner(isSigner bool) Role {
	if isSigner {
		return RoleInterpreter
	}
	return RoleParticipant
}

func (r Role) IsInterpreter() bool { return r == RoleInterpreter }

func (r Role) String() string {
	switch r {
	case RoleInterpreter:
		return "interpreter"
	default:
		return "participant"
	}
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
