package database

import (
	"fmt"
	"rentalChat/configs"
	"rentalChat/internal/models"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db    *gorm.DB
	dbErr error
	once  sync.Once
)

func GetDB(config *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	once.Do(func() {
		db, dbErr = initialize(config, log)
	})
	return db, dbErr
}

func initialize(config *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	psql := getPSQL(config)

	logLevel := logger.Warn
	if config.Viper.GetString("app.env") == "development" {
		logLevel = logger.Info
	}
	database, err := gorm.Open(postgres.Open(psql.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.Viper.GetInt("database.max_open_conns"))
	sqlDB.SetMaxIdleConns(config.Viper.GetInt("database.max_idle_conns"))

	if config.Viper.GetBool("database.auto_migrate") {
		if err := Migrate(database); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		log.Info("database migrated successfully")
	}
	log.Info("database connected", zap.String("host", psql.Host), zap.String("name", psql.Name))
	return database, nil
}

func getPSQL(config *configs.Config) *models.PSQL {
	return &models.PSQL{
		Host:     config.Viper.GetString("database.host"),
		Port:     config.Viper.GetInt("database.port"),
		User:     config.Viper.GetString("database.user"),
		Password: config.Viper.GetString("database.password"),
		Name:     config.Viper.GetString("database.name"),
		SSL:      config.Viper.GetString("database.ssl"),
		Timezone: config.Viper.GetString("database.timezone"),
	}
}

// Migrate creates the messages table. Users and rentals are owned by
// other services and are only created here for local setups.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Rental{},
		&models.Message{},
	)
}
