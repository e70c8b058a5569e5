package service

import (
	"testing"
	"time"

	"spendtrack/config"
	"spendtrack/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 1, ExpireTime: time.Hour},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	return cfg
}

func userColumns() []string {
	return []string{"user_id", "first_name", "last_name", "password_hash", "role", "created_at", "updated_at", "deleted_at"}
}

func categoryColumns() []string {
	return []string{"category_id", "user_id", "name", "description", "created_at", "updated_at", "deleted_at"}
}

func expenseColumns() []string {
	return []string{"expense_id", "user_id", "expense_date", "amount", "description", "store_name", "created_at", "updated_at", "deleted_at"}
}
