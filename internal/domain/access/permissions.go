package access

import (
	"fmt"
	"sort"

	"family-finance-go/internal/domain/apperr"
)

// ParsePermissions validates a raw category->level mapping. It is the only
// place grant contents are checked; the engine trusts whatever it parsed.
func ParsePermissions(raw map[string]string) (Permissions, error) {
	if raw == nil {
		return nil, apperr.Validation("permissions", "permissions must be an object")
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make(Permissions, len(raw))
	for _, key := range keys {
		category := Category(key)
		if !category.Valid() {
			return nil, apperr.Validation("permissions."+key, fmt.Sprintf("invalid permission key: %s", key))
		}
		level := Level(raw[key])
		if !level.Valid() {
			return nil, apperr.Validation("permissions."+key, fmt.Sprintf("invalid permission value for %s: %s", key, raw[key]))
		}
		result[category] = level
	}

	return result, nil
}
