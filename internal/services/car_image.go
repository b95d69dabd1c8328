package services

import (
	"context"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

const (
	ImageReceived     = "Image received"
	ImageExists       = "Image exists"
	ImageDoesNotExist = "Image does not exist"
)

type CarImageInput struct {
	Secret    string `json:"secret" form:"secret"`
	ID        string `json:"Id" form:"Id"`
	ImageData string `json:"imageData" form:"imageData"`
}

type CarImageResult struct {
	Result string
	Update []realtime.ChangeDescriptor
}

type CarImageService interface {
	// Upload writes the car photo when ImageData is set, otherwise reports
	// whether one exists.
	Upload(ctx context.Context, in CarImageInput) (*CarImageResult, error)
	Path(kind localmedia.Kind, id string) (string, error)
}

type carImageService struct {
	log     *logger.Logger
	carRepo repos.CarRepo
	media   localmedia.Store
	guard   *SecretGuard
}

func NewCarImageService(log *logger.Logger, carRepo repos.CarRepo, media localmedia.Store, guard *SecretGuard) CarImageService {
	serviceLog := log.With("service", "CarImageService")
	return &carImageService{log: serviceLog, carRepo: carRepo, media: media, guard: guard}
}

func (s *carImageService) Upload(ctx context.Context, in CarImageInput) (*CarImageResult, error) {
	if err := s.guard.Check(in.Secret); err != nil {
		return nil, err
	}
	if !localmedia.ValidID(localmedia.KindCar, in.ID) {
		return nil, apierr.Invalid("Invalid Id")
	}

	if in.ImageData == "" {
		ok, err := s.media.Exists(ctx, localmedia.KindCar, in.ID)
		if err != nil {
			return nil, apierr.Store(err)
		}
		if ok {
			return &CarImageResult{Result: ImageExists}, nil
		}
		return &CarImageResult{Result: ImageDoesNotExist}, nil
	}

	data, err := localmedia.DecodeBase64Image(in.ImageData)
	if err != nil {
		return nil, apierr.Invalid("imageData is not valid base64")
	}
	if err := s.media.Write(ctx, localmedia.KindCar, in.ID, data); err != nil {
		return nil, apierr.Store(err)
	}
	s.log.Info("Car image stored", "car_id", in.ID, "bytes", len(data))

	out := &CarImageResult{Result: ImageReceived}
	carID, _ := parseID(in.ID)
	n, err := s.carRepo.BumpImageVersion(ctx, nil, carID)
	if err != nil {
		s.log.Warn("Failed to bump image version", "car_id", carID, "error", err)
		return out, nil
	}
	if n > 0 {
		rows, err := s.carRepo.GetByIDs(ctx, nil, []int64{carID})
		if err == nil {
			out.Update = []realtime.ChangeDescriptor{realtime.Rows(realtime.TableCar, rows)}
		}
	}
	return out, nil
}

func (s *carImageService) Path(kind localmedia.Kind, id string) (string, error) {
	path, err := s.media.Path(kind, id)
	if err != nil {
		return "", apierr.Invalid("Invalid Id")
	}
	return path, nil
}
