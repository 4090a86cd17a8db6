package models

// Branch is the organisational unit a record belongs to.
type Branch int16

const (
	BranchAll     Branch = 1
	BranchBoys    Branch = 2
	BranchGirls   Branch = 3
	BranchHostels Branch = 4
)

var branchNames = map[Branch]string{
	BranchAll:     "all",
	BranchBoys:    "boys",
	BranchGirls:   "girls",
	BranchHostels: "hostels",
}

// Valid reports whether b is one of the known branch codes.
func (b Branch) Valid() bool {
	_, ok := branchNames[b]
	return ok
}

func (b Branch) String() string {
	if name, ok := branchNames[b]; ok {
		return name
	}
	return "unknown"
}
