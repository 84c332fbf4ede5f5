package bootstrap

import (
	"fmt"
	"strings"
	"testing"

	"college-library/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return db
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	return count
}

func countBooks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Book{}).Count(&count).Error)
	return count
}

func TestSeedDemoDataOnFreshDatabase(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedDemoData(db))

	assert.Equal(t, int64(7), countUsers(t, db))
	assert.Equal(t, int64(5), countBooks(t, db))

	// The roster carries the default admin, so the admin seed is a no-op.
	require.NoError(t, SeedAdminUser(db))
	assert.Equal(t, int64(7), countUsers(t, db))
}

func TestSeedDemoDataAfterAdminSeed(t *testing.T) {
	db := newTestDB(t)

	// When the default admin was provisioned first, the demo roster and
	// catalog must still load on an otherwise empty database.
	require.NoError(t, SeedAdminUser(db))
	require.NoError(t, SeedDemoData(db))

	assert.Equal(t, int64(5), countBooks(t, db))
	assert.Equal(t, int64(7), countUsers(t, db))

	var admins int64
	require.NoError(t, db.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Count(&admins).Error)
	assert.Equal(t, int64(2), admins)
}

func TestSeedDemoDataSkipsPopulatedDatabase(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedDemoData(db))
	require.NoError(t, SeedDemoData(db))
	require.NoError(t, SeedAdminUser(db))

	assert.Equal(t, int64(7), countUsers(t, db))
	assert.Equal(t, int64(5), countBooks(t, db))
}

func TestSeedAdminUser(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedAdminUser(db))
	require.NoError(t, SeedAdminUser(db))

	var admins []*model.User
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "ADM2024001", admins[0].PRNNumber)
}
