package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/config"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		// instantes sempre gravados em UTC; o calendário converte na leitura
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barber{},
		&models.BarberProduct{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	// consulta de disponibilidade filtra por barbeiro + janela do dia
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_appointments_barber_window
		ON appointments (barber_id, start_time, end_time)
		WHERE status = 'scheduled'
	`).Error; err != nil {
		log.Warn("failed to create appointment window index", zap.Error(err))
	}

	log.Info("database ready")
	return db, nil
}
