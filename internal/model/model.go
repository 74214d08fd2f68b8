// Package model 定义数据模型
package model

import (
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Note":
		return db.AutoMigrate(Note{})

	case "Group":
		return db.AutoMigrate(Group{})

	case "Setting":
		return db.AutoMigrate(Setting{})

	case "User":
		return db.AutoMigrate(User{})
	}
	return nil
}

// AutoMigrateAll 迁移全部表
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Note{}, Group{}, Setting{}, User{})
}
