package services

import (
	"context"
	"errors"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

// recentCheckInDays bounds the "recent" check-in list: the current day plus
// the three before it.
const recentCheckInDays = 4

type CheckInInput struct {
	Name     string `json:"name" form:"name"`
	Nickname string `json:"nickname" form:"nickname"`
	Den      string `json:"den" form:"den"`
	Photo    string `json:"photo" form:"photo"`
}

type CheckInAddedInput struct {
	CheckInID string `json:"checkInId" form:"checkInId"`
	EventID   *int64 `json:"eventId" form:"eventId"`
}

type CheckInQuery struct {
	Secret   string
	NotAdded bool
	Recent   bool
}

type CheckInService interface {
	CheckIn(ctx context.Context, in CheckInInput) (realtime.ChangeDescriptor, error)
	MarkAdded(ctx context.Context, in CheckInAddedInput) (realtime.ChangeDescriptor, error)
	List(ctx context.Context, q CheckInQuery) ([]*domain.CheckIn, error)
}

type checkInService struct {
	log         *logger.Logger
	checkInRepo repos.CheckInRepo
	media       localmedia.Store
	guard       *SecretGuard
	clock       clock.Clock
}

func NewCheckInService(log *logger.Logger, checkInRepo repos.CheckInRepo, media localmedia.Store, guard *SecretGuard, clk clock.Clock) CheckInService {
	serviceLog := log.With("service", "CheckInService")
	if clk == nil {
		clk = clock.New()
	}
	return &checkInService{
		log:         serviceLog,
		checkInRepo: checkInRepo,
		media:       media,
		guard:       guard,
		clock:       clk,
	}
}

// CheckIn records a registration-table submission and stores its photo,
// normalized to 640x480.
func (cs *checkInService) CheckIn(ctx context.Context, in CheckInInput) (realtime.ChangeDescriptor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("name")
	}
	if in.Photo == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("photo")
	}
	raw, err := localmedia.DecodeJPEGDataURL(in.Photo)
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Invalid(err.Error())
	}
	photo, err := localmedia.FitJPEG(raw, localmedia.PhotoWidth, localmedia.PhotoHeight, localmedia.PhotoQuality)
	if errors.Is(err, localmedia.ErrPhotoTooLarge) {
		return realtime.ChangeDescriptor{}, apierr.Invalid("photo is too large")
	}
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Invalid("photo is not a readable JPEG")
	}

	ci := &domain.CheckIn{
		CheckInID: uuid.NewString(),
		CarName:   strings.TrimSpace(in.Name),
		Nickname:  strings.TrimSpace(in.Nickname),
		Den:       strings.TrimSpace(in.Den),
		Time:      cs.clock.Now().UTC(),
	}
	if _, err := cs.checkInRepo.Create(ctx, nil, ci); err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if err := cs.media.Write(ctx, localmedia.KindCheckIn, ci.CheckInID, photo); err != nil {
		cs.log.Error("Failed to store check-in photo", "check_in_id", ci.CheckInID, "error", err)
		if derr := cs.checkInRepo.Delete(context.WithoutCancel(ctx), nil, ci.CheckInID); derr != nil {
			cs.log.Error("Failed to roll back check-in", "check_in_id", ci.CheckInID, "error", derr)
		}
		return realtime.ChangeDescriptor{}, apierr.Store(errors.New("Check-in failed"))
	}

	rows, err := cs.checkInRepo.GetByIDs(ctx, nil, []string{ci.CheckInID})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	cs.log.Info("Car checked in", "check_in_id", ci.CheckInID)
	return realtime.Rows(realtime.TableCheckIn, rows), nil
}

func (cs *checkInService) MarkAdded(ctx context.Context, in CheckInAddedInput) (realtime.ChangeDescriptor, error) {
	if strings.TrimSpace(in.CheckInID) == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("checkInId")
	}
	if _, err := cs.checkInRepo.MarkAdded(ctx, nil, in.CheckInID, in.EventID); err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	rows, err := cs.checkInRepo.GetByIDs(ctx, nil, []string{in.CheckInID})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if len(rows) == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("Check-in")
	}
	return realtime.Rows(realtime.TableCheckIn, rows), nil
}

func (cs *checkInService) List(ctx context.Context, q CheckInQuery) ([]*domain.CheckIn, error) {
	if err := cs.guard.Check(q.Secret); err != nil {
		return nil, err
	}
	filter := repos.CheckInFilter{NotAdded: q.NotAdded}
	if q.Recent {
		since := startOfDay(cs.clock.Now()).AddDate(0, 0, -(recentCheckInDays - 1))
		filter.Since = &since
	}
	rows, err := cs.checkInRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return rows, nil
}
