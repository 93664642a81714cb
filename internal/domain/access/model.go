package access

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleFamilyMember Role = "family_member"
	RoleAccountant   Role = "accountant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFamilyMember, RoleAccountant:
		return true
	default:
		return false
	}
}

// Principal is the authenticated caller. It is built once per request from the
// token claims and never reloaded while the request runs.
type Principal struct {
	UserID string
	Role   Role
}

type Category string

const (
	CategoryAssets       Category = "assets"
	CategoryTransactions Category = "transactions"
	CategoryDocuments    Category = "documents"
)

var Categories = []Category{CategoryAssets, CategoryTransactions, CategoryDocuments}

func (c Category) Valid() bool {
	switch c {
	case CategoryAssets, CategoryTransactions, CategoryDocuments:
		return true
	default:
		return false
	}
}

// Level is ordered: none < read < write.
type Level string

const (
	LevelNone  Level = "none"
	LevelRead  Level = "read"
	LevelWrite Level = "write"
)

func (l Level) Valid() bool {
	switch l {
	case LevelNone, LevelRead, LevelWrite:
		return true
	default:
		return false
	}
}

func (l Level) rank() int {
	switch l {
	case LevelRead:
		return 1
	case LevelWrite:
		return 2
	default:
		return 0
	}
}

// Permissions maps a category to the level granted on it. A missing key means none.
type Permissions map[Category]Level

func (p Permissions) Level(c Category) Level {
	if p == nil {
		return LevelNone
	}
	level, ok := p[c]
	if !ok {
		return LevelNone
	}
	return level
}

func (p Permissions) Allows(c Category, required Level) bool {
	return LevelPermits(p.Level(c), required)
}

func (p Permissions) Clone() Permissions {
	cloned := make(Permissions, len(p))
	for c, l := range p {
		cloned[c] = l
	}
	return cloned
}

// Scope is the set of groups a principal may list rows from.
type Scope struct {
	All      bool
	GroupIDs []string
}

func (s Scope) Empty() bool {
	return !s.All && len(s.GroupIDs) == 0
}

func (s Scope) Contains(groupID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
