package database

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/models"
)

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))
	assert.ErrorIs(t, Classify(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, Classify(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)
	assert.ErrorIs(t, Classify(gorm.ErrForeignKeyViolated), ErrInvalidReference)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "23505"}), ErrDuplicate)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "23503"}), ErrInvalidReference)

	assert.ErrorIs(t, Classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), ErrDuplicate)
	assert.ErrorIs(t, Classify(fmt.Errorf("delete: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})), ErrInvalidReference)

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, Classify(other))
}

func TestConnect_SQLiteMigratesAndSeeds(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: "file:connect_test?mode=memory&cache=shared", AppEnv: "test"}
	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)

	var s models.SecuritySettings
	require.NoError(t, db.First(&s).Error)
	assert.Equal(t, models.DefaultSecuritySettings().MaxLoginAttempts, s.MaxLoginAttempts)

	// a second migration does not add another settings row
	require.NoError(t, Migrate(db))
	var n int64
	require.NoError(t, db.Model(&models.SecuritySettings{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "oracle")
}

func TestClassify_SQLiteRestrictDelete(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: "file:restrict_test?mode=memory&cache=shared", AppEnv: "test"}
	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)

	school := models.School{SchoolCode: "S001", Name: "โรงเรียนทดสอบ", EducationLevel: "ประถมศึกษา", IsActive: true}
	require.NoError(t, db.Create(&school).Error)
	require.NoError(t, db.Create(&models.Student{
		StudentCode: "ST001", FirstName: "Malee", LastName: "Srisuk", SchoolID: school.ID, Status: models.StudentActive,
	}).Error)

	err = db.Delete(&models.School{}, school.ID).Error
	require.Error(t, err)
	assert.ErrorIs(t, Classify(err), ErrInvalidReference)
}
