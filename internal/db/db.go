package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultDatabasePath = "quillpress.db"

// 写事务直接拿 RESERVED 锁，遇到锁等待而不是立即返回 SQLITE_BUSY
const connParams = "_busy_timeout=5000&_txlock=immediate"

// Open 打开 SQLite 数据库并执行自动迁移。
// databasePath 为空时回退到默认值 quillpress.db。
func Open(databasePath string, opts ...gorm.Option) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = defaultDatabasePath
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	if len(opts) == 0 {
		opts = []gorm.Option{&gorm.Config{}}
	}

	gdb, err := gorm.Open(sqlite.Open(withConnParams(path)), opts...)
	if err != nil {
		return nil, err
	}

	// SQLite 单写者，所有写入串行化到同一个连接
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the tables for every persisted model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
	)
}

// Close releases the underlying sql.DB pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withConnParams(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + connParams
	}
	return path + "?" + connParams
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
