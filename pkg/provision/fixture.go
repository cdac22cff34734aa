package provision

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/thesyncim/meetingwidget/pkg/config"
	"github.com/thesyncim/meetingwidget/pkg/log"
)

// UserProvisioner creates and removes test users.
type UserProvisioner interface {
	CreateUser(ctx context.Context, opts UserOptions) (*TestUser, error)
	RemoveUser(ctx context.Context, user *TestUser) error
}

// RoomProvisioner creates and removes rooms.
type RoomProvisioner interface {
	Create(ctx context.Context, title string) (*Room, error)
	Remove(ctx context.Context, room *Room) error
}

// Deps are the provisioning backends a Fixture uses. Rooms is called with
// the access token in effect once the user step is done.
type Deps struct {
	Users UserProvisioner
	Rooms func(accessToken string) RoomProvisioner
}

// NewDeps wires the platform services from cfg, sharing one rate limiter.
func NewDeps(cfg config.Config) Deps {
	opts := []Option{WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1))}
	return Deps{
		Users: NewUserService(UserServiceConfig{
			BaseURL:      cfg.TestUsersURL,
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Options:      opts,
		}),
		Rooms: func(accessToken string) RoomProvisioner {
			return NewRoomService(cfg.APIBaseURL, accessToken, opts...)
		},
	}
}

// Fixture holds the credentials and destination of one run, plus whatever it
// had to create to get them.
type Fixture struct {
	AccessToken string
	Destination string
	User        *TestUser
	Room        *Room

	users UserProvisioner
	rooms RoomProvisioner
}

// Setup fills in the access token and destination, provisioning only what cfg
// leaves empty. Provisioning errors are logged and swallowed; call Require to
// fail on missing values.
func Setup(ctx context.Context, cfg config.Config, deps Deps) *Fixture {
	f := &Fixture{
		AccessToken: cfg.AccessToken,
		Destination: cfg.MeetingDestination,
		users:       deps.Users,
	}
	if err := f.provision(ctx, cfg, deps); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
			"body":  ErrorBody(err),
		}).Error("fixture setup failed")
	}
	return f
}

func (f *Fixture) provision(ctx context.Context, cfg config.Config, deps Deps) error {
	if f.AccessToken == "" {
		if deps.Users == nil {
			return errors.New("no user provisioner configured")
		}
		user, err := deps.Users.CreateUser(ctx, UserOptions{})
		if err != nil {
			return err
		}
		f.User = user
		f.AccessToken = user.Token.AccessToken
		log.WithFields(map[string]interface{}{"user": user.Email}).Info("provisioned test user")
	}

	if f.Destination == "" {
		if deps.Rooms == nil {
			return errors.New("no room provisioner configured")
		}
		f.rooms = deps.Rooms(f.AccessToken)
		room, err := f.rooms.Create(ctx, cfg.RoomTitle)
		if err != nil {
			return err
		}
		f.Room = room
		f.Destination = room.ID
		log.WithFields(map[string]interface{}{"room": room.ID, "title": room.Title}).Info("provisioned room")
	}
	return nil
}

// Require reports the first missing value as a config sentinel error.
func (f *Fixture) Require() error {
	if f.AccessToken == "" {
		return config.ErrMissingAccessToken
	}
	if f.Destination == "" {
		return config.ErrMissingDestination
	}
	return nil
}

// Teardown removes the room, then the user. Only resources created by Setup
// are touched. A room removal failure is logged; the user removal error is
// returned and the user is kept so Teardown can be called again.
func (f *Fixture) Teardown(ctx context.Context) error {
	if f.Room != nil && f.rooms != nil {
		if err := f.rooms.Remove(ctx, f.Room); err != nil {
			log.Errorf("failed to remove room %s: %v", f.Room.ID, err)
		}
		f.Room = nil
	}

	if f.User != nil && f.users != nil {
		if err := f.users.RemoveUser(ctx, f.User); err != nil {
			return err
		}
		f.User = nil
	}
	return nil
}
