package database

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kunmmi/whisper/internal/models"
)

func ConnectMySQL(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the chat schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatMember{},
		&models.Message{},
		&models.ChatReadStatus{},
	)
}
