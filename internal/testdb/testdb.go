// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forcosplay/costume-shop/internal/models"
	pkg_hash "github.com/forcosplay/costume-shop/pkg/hash"
)

var seq atomic.Int64

func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func Account(t testing.TB, db *gorm.DB, email, role string) *models.Account {
	t.Helper()
	pw, err := pkg_hash.HashPassword("password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a := &models.Account{Email: email, Name: email, PasswordHash: pw, Role: role, Enabled: true}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func Costume(t testing.TB, db *gorm.DB, c models.Costume) *models.Costume {
	t.Helper()
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create costume: %v", err)
	}
	return &c
}
