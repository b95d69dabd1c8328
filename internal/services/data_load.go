package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

const dataLoadTimeout = 30 * time.Second

type DataLoadInput struct {
	Secret string `json:"secret" form:"secret"`
	SQL    string `json:"sql" form:"sql"`
}

// DataLoadService replays a SQL dump produced by the race-day software.
type DataLoadService interface {
	Load(ctx context.Context, in DataLoadInput) error
}

type dataLoadService struct {
	db    *gorm.DB
	log   *logger.Logger
	guard *SecretGuard
}

func NewDataLoadService(db *gorm.DB, log *logger.Logger, guard *SecretGuard) DataLoadService {
	serviceLog := log.With("service", "DataLoadService")
	return &dataLoadService{db: db, log: serviceLog, guard: guard}
}

func (s *dataLoadService) Load(ctx context.Context, in DataLoadInput) error {
	if err := s.guard.Check(in.Secret); err != nil {
		return err
	}
	if strings.TrimSpace(in.SQL) == "" {
		return apierr.Required("sql")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return apierr.Store(err)
	}
	ctx, cancel := context.WithTimeout(ctx, dataLoadTimeout)
	defer cancel()

	start := time.Now()
	if _, err := sqlDB.ExecContext(ctx, in.SQL); err != nil {
		s.log.Warn("Bulk data load failed", "error", err)
		return apierr.Store(err)
	}
	s.log.Info("Bulk data load applied", "bytes", len(in.SQL), "duration_ms", time.Since(start).Milliseconds())
	return nil
}
