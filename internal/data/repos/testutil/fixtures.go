package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, admin bool) *domain.User {
	tb.Helper()
	u := &domain.User{
		Username: username,
		Password: "pw",
		Admin:    domain.BitBool(admin),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, date time.Time, hidden bool) *domain.Event {
	tb.Helper()
	e := &domain.Event{
		EventName:  name,
		EventDate:  &date,
		Multiplier: 1,
		NumLanes:   4,
		Hidden:     domain.BitBool(hidden),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedCar(tb testing.TB, ctx context.Context, tx *gorm.DB, eventID int64, number int, name string) *domain.Car {
	tb.Helper()
	c := &domain.Car{
		EventID:   eventID,
		CarNumber: number,
		CarName:   name,
		Owner:     "owner",
		Den:       "Wolf",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed car: %v", err)
	}
	return c
}

func SeedResult(tb testing.TB, ctx context.Context, tx *gorm.DB, eventID, carID int64, heat, lane int, secs float64) *domain.Result {
	tb.Helper()
	r := &domain.Result{
		EventID:    eventID,
		CarID:      carID,
		HeatNumber: heat,
		Lane:       lane,
		Time:       &secs,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed result: %v", err)
	}
	return r
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, carID int64, achievement string) {
	tb.Helper()
	a := &domain.Achievement{CarID: carID, Achievement: achievement}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
}

func SeedCheckIn(tb testing.TB, ctx context.Context, tx *gorm.DB, carName string, at time.Time, addedTo *int64) *domain.CheckIn {
	tb.Helper()
	ci := &domain.CheckIn{
		CheckInID:      uuid.NewString(),
		CarName:        carName,
		Nickname:       "nick",
		Den:            "Bear",
		Time:           at.UTC(),
		AddedToEventID: addedTo,
	}
	if err := tx.WithContext(ctx).Create(ci).Error; err != nil {
		tb.Fatalf("seed check-in: %v", err)
	}
	return ci
}
