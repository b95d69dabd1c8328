package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

type CreateCarInput struct {
	EventID   *int64 `json:"eventId"`
	CarNumber *int   `json:"carNumber"`
	CarName   string `json:"carName"`
	Owner     string `json:"owner"`
	Den       string `json:"den"`
}

type UpdateCarInput struct {
	CarID     *int64  `json:"carId"`
	EventID   *int64  `json:"eventId"`
	CarNumber *int    `json:"carNumber"`
	CarName   *string `json:"carName"`
	Owner     *string `json:"owner"`
	Den       *string `json:"den"`
}

type DeleteCarInput struct {
	CarID *int64 `json:"carId"`
}

type CarService interface {
	ListByEventID(ctx context.Context, eventID int64) ([]*domain.Car, error)
	Create(ctx context.Context, in CreateCarInput) (realtime.ChangeDescriptor, error)
	Update(ctx context.Context, in UpdateCarInput) (realtime.ChangeDescriptor, error)
	Delete(ctx context.Context, in DeleteCarInput) (realtime.ChangeDescriptor, error)
}

type carService struct {
	db      *gorm.DB
	log     *logger.Logger
	carRepo repos.CarRepo
}

func NewCarService(db *gorm.DB, log *logger.Logger, carRepo repos.CarRepo) CarService {
	serviceLog := log.With("service", "CarService")
	return &carService{db: db, log: serviceLog, carRepo: carRepo}
}

func (cs *carService) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Car, error) {
	cars, err := cs.carRepo.ListByEventID(ctx, nil, eventID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return cars, nil
}

func (cs *carService) Create(ctx context.Context, in CreateCarInput) (realtime.ChangeDescriptor, error) {
	if in.EventID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("eventId")
	}
	car := &domain.Car{
		EventID: *in.EventID,
		CarName: in.CarName,
		Owner:   in.Owner,
		Den:     in.Den,
	}
	if in.CarNumber != nil {
		car.CarNumber = *in.CarNumber
	}

	var rows []*domain.Car
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := cs.carRepo.Create(ctx, tx, car)
		if err != nil {
			return err
		}
		rows, err = cs.carRepo.GetByIDs(ctx, tx, []int64{created.CarID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	cs.log.Info("Car created", "car_id", car.CarID, "event_id", car.EventID)
	return realtime.Rows(realtime.TableCar, rows), nil
}

func (cs *carService) Update(ctx context.Context, in UpdateCarInput) (realtime.ChangeDescriptor, error) {
	if in.CarID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("carId")
	}
	fields := map[string]any{}
	if in.EventID != nil {
		fields["eventId"] = *in.EventID
	}
	if in.CarNumber != nil {
		fields["carNumber"] = *in.CarNumber
	}
	if in.CarName != nil {
		fields["carName"] = *in.CarName
	}
	if in.Owner != nil {
		fields["owner"] = *in.Owner
	}
	if in.Den != nil {
		fields["den"] = *in.Den
	}

	if len(fields) == 0 {
		return realtime.ChangeDescriptor{}, errNothingToUpdate()
	}

	var rows []*domain.Car
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.carRepo.Update(ctx, tx, *in.CarID, fields); err != nil {
			return err
		}
		var err error
		rows, err = cs.carRepo.GetByIDs(ctx, tx, []int64{*in.CarID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if len(rows) == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("Car")
	}
	return realtime.Rows(realtime.TableCar, rows), nil
}

func (cs *carService) Delete(ctx context.Context, in DeleteCarInput) (realtime.ChangeDescriptor, error) {
	if in.CarID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("carId")
	}
	n, err := cs.carRepo.Delete(ctx, nil, *in.CarID)
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if n == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("Car")
	}
	cs.log.Info("Car deleted", "car_id", *in.CarID)
	return realtime.Deleted(realtime.TableCar, *in.CarID), nil
}
