package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

type CreateUserInput struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Admin    *domain.BitBool `json:"admin"`
	EventIDs string          `json:"eventIds"`
}

type UpdateUserInput struct {
	UserID   *int64          `json:"userId"`
	Username *string         `json:"username"`
	Password *string         `json:"password"`
	Admin    *domain.BitBool `json:"admin"`
	EventIDs *string         `json:"eventIds"`
}

type DeleteUserInput struct {
	UserID *int64 `json:"userId"`
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (realtime.ChangeDescriptor, error)
	Update(ctx context.Context, in UpdateUserInput) (realtime.ChangeDescriptor, error)
	Delete(ctx context.Context, in DeleteUserInput) (realtime.ChangeDescriptor, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return users, nil
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (realtime.ChangeDescriptor, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("username")
	}
	if in.Password == "" {
		return realtime.ChangeDescriptor{}, apierr.Required("password")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}

	user := &domain.User{
		Username: username,
		Password: hash,
		EventIDs: in.EventIDs,
	}
	if in.Admin != nil {
		user.Admin = *in.Admin
	}

	var rows []*domain.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := us.userRepo.Create(ctx, tx, user)
		if err != nil {
			return err
		}
		rows, err = us.userRepo.GetByIDs(ctx, tx, []int64{created.UserID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	us.log.Info("User created", "user_id", user.UserID)
	return realtime.Rows(realtime.TableUser, rows), nil
}

func (us *userService) Update(ctx context.Context, in UpdateUserInput) (realtime.ChangeDescriptor, error) {
	if in.UserID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("userId")
	}

	fields := map[string]any{}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return realtime.ChangeDescriptor{}, apierr.Required("username")
		}
		fields["username"] = name
	}
	if in.Password != nil {
		if *in.Password == "" {
			return realtime.ChangeDescriptor{}, apierr.Required("password")
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return realtime.ChangeDescriptor{}, apierr.Store(err)
		}
		fields["password"] = hash
	}
	if in.Admin != nil {
		fields["admin"] = *in.Admin
	}
	if in.EventIDs != nil {
		fields["eventIds"] = *in.EventIDs
	}

	if len(fields) == 0 {
		return realtime.ChangeDescriptor{}, errNothingToUpdate()
	}

	var rows []*domain.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := us.userRepo.Update(ctx, tx, *in.UserID, fields); err != nil {
			return err
		}
		var err error
		rows, err = us.userRepo.GetByIDs(ctx, tx, []int64{*in.UserID})
		return err
	})
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if len(rows) == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("User")
	}
	return realtime.Rows(realtime.TableUser, rows), nil
}

func (us *userService) Delete(ctx context.Context, in DeleteUserInput) (realtime.ChangeDescriptor, error) {
	if in.UserID == nil {
		return realtime.ChangeDescriptor{}, apierr.Required("userId")
	}
	n, err := us.userRepo.Delete(ctx, nil, *in.UserID)
	if err != nil {
		return realtime.ChangeDescriptor{}, apierr.Store(err)
	}
	if n == 0 {
		return realtime.ChangeDescriptor{}, apierr.NotFound("User")
	}
	us.log.Info("User deleted", "user_id", *in.UserID)
	return realtime.Deleted(realtime.TableUser, *in.UserID), nil
}
