package tenant

import "gorm.io/gorm"

// Scope restricts a query to one organization. Every tenant-owned table
// carries an org_id column, so repos apply this on each read and write.
func Scope(orgID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("org_id = ?", orgID)
	}
}
