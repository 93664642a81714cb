// Package cascade removes group-scoped rows explicitly, so deletes leave no
// orphans even where the store does not enforce foreign keys.
package cascade

import (
	"family-finance-go/internal/domain/assets"
	"family-finance-go/internal/domain/documents"
	"family-finance-go/internal/domain/family"
	"family-finance-go/internal/domain/transactions"
	"gorm.io/gorm"
)

// DocumentKeys returns the blob keys of every document in the groups.
func DocumentKeys(tx *gorm.DB, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var keys []string
	err := tx.Model(&documents.Document{}).
		Where("group_id IN ?", groupIDs).
		Pluck("file_key", &keys).Error
	return keys, err
}

// PurgeGroups deletes the groups and everything scoped to them. It returns the
// number of groups removed.
func PurgeGroups(tx *gorm.DB, groupIDs []string) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}

	dependents := []any{
		&transactions.Transaction{},
		&documents.Document{},
		&assets.Asset{},
		&family.Grant{},
	}
	for _, model := range dependents {
		if err := tx.Where("group_id IN ?", groupIDs).Delete(model).Error; err != nil {
			return 0, err
		}
	}

	result := tx.Where("id IN ?", groupIDs).Delete(&family.Group{})
	return result.RowsAffected, result.Error
}
