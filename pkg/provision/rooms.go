package provision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Room is a platform space usable as a meeting destination.
type Room struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Type     string    `json:"type,omitempty"`
	IsLocked bool      `json:"isLocked,omitempty"`
	Created  time.Time `json:"created,omitempty"`
}

// RoomService manages rooms on behalf of one access token.
type RoomService struct {
	client *Client
}

// NewRoomService returns a RoomService authorized as accessToken.
func NewRoomService(baseURL, accessToken string, opts ...Option) *RoomService {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &RoomService{client: NewClient(baseURL, ts, opts...)}
}

type createRoomRequest struct {
	Title string `json:"title"`
}

// Create makes a room titled title.
func (s *RoomService) Create(ctx context.Context, title string) (*Room, error) {
	var room Room
	if err := s.client.Do(ctx, http.MethodPost, "/rooms", createRoomRequest{Title: title}, &room); err != nil {
		return nil, fmt.Errorf("create room %q: %w", title, err)
	}
	if room.ID == "" {
		return nil, errors.New("create room: response carried no id")
	}
	return &room, nil
}

// Remove deletes room. A room that no longer exists counts as removed.
func (s *RoomService) Remove(ctx context.Context, room *Room) error {
	if room == nil {
		return nil
	}
	err := s.client.Do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(room.ID), nil, nil)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("remove room %s: %w", room.ID, err)
	}
	return nil
}
