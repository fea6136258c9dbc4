package service

import (
	"gorm.io/gorm"

	"registro/config"
)

// Services is the global service container
type Services struct {
	Directory *DirectoryService
}

// GlobalServices is the global service instance
var GlobalServices *Services

// InitServices initializes the directory service over the shared directory
// database. Company store services are constructed per request instead,
// since every request opens its own store handle.
func InitServices(db *gorm.DB) {
	directorySvc := NewDirectoryService(db, config.Settings.DataDir, ParseDefaultFields(config.Settings.DefaultFields))

	GlobalServices = &Services{
		Directory: directorySvc,
	}
}
