package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func TestEnsureAdminCreatesHashedAdmin(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := EnsureAdmin(gdb, "rootadmin", "Root@Example.com", "s3cret!"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	var user User
	if err := gdb.Where("username = ?", "rootadmin").First(&user).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if !user.IsAdmin {
		t.Fatal("expected admin flag to be set")
	}
	if user.Email != "root@example.com" {
		t.Fatalf("expected lower-cased email, got %q", user.Email)
	}
	if user.ProfilePicture != DefaultProfilePicture {
		t.Fatalf("expected default profile picture, got %q", user.ProfilePicture)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret!")); err != nil {
		t.Fatalf("expected bcrypt hash: %v", err)
	}

	if err := EnsureAdmin(gdb, "rootadmin", "root@example.com", "other"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single user, got %d", count)
	}
}

func TestEnsureAdminSkipsIncompleteCredentials(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := EnsureAdmin(gdb, "rootadmin", "", "pw"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no user, got %d", count)
	}
}

func TestSetAdmin(t *testing.T) {
	gdb := setupUserTestDB(t)
	if err := gdb.Create(&User{Username: "writer01", Email: "w@example.com", Password: "x"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := SetAdmin(gdb, "writer01", true)
	if err != nil || !found {
		t.Fatalf("expected promotion, found=%v err=%v", found, err)
	}

	var user User
	gdb.Where("username = ?", "writer01").First(&user)
	if !user.IsAdmin {
		t.Fatal("expected user to be admin")
	}

	found, err = SetAdmin(gdb, "ghost", true)
	if err != nil || found {
		t.Fatalf("expected missing user, found=%v err=%v", found, err)
	}
}
