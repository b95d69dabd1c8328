package services

import (
	"context"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

// EventQuery selects events for listing. DayStart and DayEnd are day offsets
// from today; an event qualifies when DayStart <= days until it < DayEnd.
type EventQuery struct {
	ShowHidden bool
	DayStart   *int
	DayEnd     *int
}

type CreateEventInput struct {
	EventName    string          `json:"eventName"`
	EventDate    *Date           `json:"eventDate"`
	Multiplier   *float64        `json:"multiplier"`
	NumLanes     *int            `json:"numLanes"`
	Hidden       *domain.BitBool `json:"hidden"`
	EnableVoting *domain.BitBool `json:"enableVoting"`
}

type UpdateEventInput struct {
	EventID      *int64          `json:"eventId"`
	EventName    *string         `json:"eventName"`
	EventDate    *Date           `json:"eventDate"`
	Multiplier   *float64        `json:"multiplier"`
	NumLanes     *int            `json:"numLanes"`
	Hidden       *domain.BitBool `json:"hidden"`
	EnableVoting *domain.BitBool `json:"enableVoting"`
}

type DeleteEventInput struct {
	EventID *int64 `json:"eventId"`
}

type EventService interface {
	List(ctx context.Context, q EventQuery) ([]*domain.Event, error)
	Get(ctx context.Context, eventID int64) (*domain.Event, error)
	Create(ctx context.Context, in CreateEventInput) (realtime.ChangeDescriptor, error)
	Update(ctx context.Context, in UpdateEventInput) (realtime.ChangeDescriptor, error)
	Delete(ctx context.Context, in DeleteEventInput) (realtime.ChangeDescriptor, error)
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
	clock     clock.Clock
}

func NewEventService(db *gorm.DB, log *logger.Logger, eventRepo repos.EventRepo, clk clock.Clock) EventService {
	serviceLog := log.With("service", "EventService")
	if clk == nil {
		clk = clock.New()
	}
	return &eventService{db: db, log: serviceLog, eventRepo: eventRepo, clock: clk}
}

func (es *eventService) List(ctx context.Context, q EventQuery) ([]*domain.Event, error) {
	filter := repos.EventFilter{ShowHidden: q.ShowHidden}
	today := startOfDay(es.clock.Now())
	if q.DayStart != nil {
		from := today.AddDate(0, 0, *q.DayStart)
		filter.From = &from
	}
	if q.DayEnd != nil {
		until := today.AddDate(0, 0, *q.DayEnd)
		filter.Until = &until
	}
	events, err := es.eventRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return events, nil
}

func (es *eventService) Get(ctx context.Context, eventID int64) (*domain.Event, error) {
	rows, err := es.eventRepo.GetByIDs(ctx, nil, []int64{eventID})
	if err != nil {
		return nil, apierr.Store(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("Event")
	}
	return rows[0], nil
}

func (es *eventService) Create(ctx context.Context, in CreateEventInput) (realtime.ChangeDescriptor, error) {
	name := strings.TrimSpace(in.EventName)
	if name == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("eventName")
	}
	event := &domain.Event{
		EventName:  name,
		EventDate:  in.EventDate.TimePtr(),
		Multiplier: 1,
	}
	if in.Multiplier != nil {
		event.Multiplier = *in.Multiplier
	}
	if in.NumLanes != nil {
		event.NumLanes = *in.NumLanes
	}
	if in.Hidden != nil {
		event.Hidden = *in.Hidden
	}
	if in.EnableVoting != nil {
		event.EnableVoting = *in.EnableVoting
	}

	var rows []*domain.Event
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := es.eventRepo.Create(ctx, tx, event)
		if err != nil {
			return err
		}
		rows, err = es.eventRepo.GetByIDs(ctx, tx, []int64{created.EventID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	es.log.Info("Event created", "event_id", event.EventID)
	return realtime.Rows(realtime.TableEvent, rows), nil
}

func (es *eventService) Update(ctx context.Context, in UpdateEventInput) (realtime.ChangeDescriptor, error) {
	if in.EventID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("eventId")
	}
	fields := map[string]any{}
	if in.EventName != nil {
		name := strings.TrimSpace(*in.EventName)
		if name == "" {
			return realtime.ChangeDescriptor{}, apierr.Required("eventName")
		}
		fields["eventName"] = name
	}
	if in.EventDate != nil {
		fields["eventDate"] = in.EventDate.Time
	}
	if in.Multiplier != nil {
		fields["multiplier"] = *in.Multiplier
	}
	if in.NumLanes != nil {
		fields["numLanes"] = *in.NumLanes
	}
	if in.Hidden != nil {
		fields["hidden"] = *in.Hidden
	}
	if in.EnableVoting != nil {
		fields["enableVoting"] = *in.EnableVoting
	}

	if len(fields) == 0 {
		return realtime.ChangeDescriptor{}, errNothingToUpdate()
	}

	var rows []*domain.Event
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := es.eventRepo.Update(ctx, tx, *in.EventID, fields); err != nil {
			return err
		}
		var err error
		rows, err = es.eventRepo.GetByIDs(ctx, tx, []int64{*in.EventID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if len(rows) == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("Event")
	}
	return realtime.Rows(realtime.TableEvent, rows), nil
}

func (es *eventService) Delete(ctx context.Context, in DeleteEventInput) (realtime.ChangeDescriptor, error) {
	if in.EventID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("eventId")
	}
	n, err := es.eventRepo.Delete(ctx, nil, *in.EventID)
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if n == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("Event")
	}
	es.log.Info("Event deleted", "event_id", *in.EventID)
	return realtime.Deleted(realtime.TableEvent, *in.EventID), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
