package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/fuel"
)

// Source tells the caller whether a value came from the API or from the
// local fallback.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

var ErrNoProfile = errors.New("no profile available")

// Profile is a member profile as the API stores it.
type Profile struct {
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Location  string `json:"location,omitempty"`
	Role      string `json:"role,omitempty"`
	UserType  string `json:"userType,omitempty"`
	fuel.Profile
}

type NewUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	UserType  string `json:"userType,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	UserType  string    `json:"userType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

// SaveMeProfile posts the profile built during the journey. On failure the
// input is echoed back and cached under profile_{id}.
func (c *Client) SaveMeProfile(ctx context.Context, p Profile) (Profile, Source) {
	var out Profile
	err := c.do(ctx, http.MethodPost, "/me-profiles", p, &out)
	if err == nil {
		c.cacheProfile(ctx, profileKey(out.UserID), out)
		return out, SourceRemote
	}
	c.warn("save me-profile", err, zap.String("user", p.UserID))
	c.cacheProfile(ctx, profileKey(p.UserID), p)
	return p, SourceFallback
}

// UpdateProfile writes the profile for userID and always keeps a local copy.
func (c *Client) UpdateProfile(ctx context.Context, userID string, p Profile) (Profile, Source) {
	p.UserID = userID
	var out Profile
	if err := c.do(ctx, http.MethodPut, userPath(userID)+"/profile", p, &out); err != nil {
		c.warn("update profile", err, zap.String("user", userID))
		c.cacheProfile(ctx, userProfileKey(userID), p)
		return p, SourceFallback
	}
	if out.UserID == "" {
		out.UserID = userID
	}
	c.cacheProfile(ctx, userProfileKey(userID), out)
	return out, SourceRemote
}

// GetProfile reads the profile for userID, falling back to the cached
// userProfile_{id} then profile_{id} copies.
func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, Source, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, userPath(userID)+"/profile", nil, &out)
	if err == nil {
		if out.UserID == "" {
			out.UserID = userID
		}
		c.cacheProfile(ctx, userProfileKey(userID), out)
		return out, SourceRemote, nil
	}
	c.warn("get profile", err, zap.String("user", userID))

	for _, key := range []string{userProfileKey(userID), profileKey(userID)} {
		var cached Profile
		ok, kvErr := getJSON(ctx, c.Fallback, key, &cached)
		if kvErr != nil {
			c.logger.Warn("Remote Client: unreadable cached profile", zap.String("key", key), zap.Error(kvErr))
			continue
		}
		if ok {
			return cached, SourceFallback, nil
		}
	}
	return Profile{}, SourceFallback, ErrNoProfile
}

// CreateUser registers a member. When the API is unavailable a mock user
// with a generated id is returned and remembered as the current user.
func (c *Client) CreateUser(ctx context.Context, u NewUser) (User, Source) {
	u.Email = strings.TrimSpace(u.Email)
	var out User
	err := c.do(ctx, http.MethodPost, "/users", u, &out)
	src := SourceRemote
	if err != nil || out.ID == "" {
		if err != nil {
			c.warn("create user", err, zap.String("email", u.Email))
		}
		out = User{
			ID:        uuid.NewString(),
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			UserType:  u.UserType,
			CreatedAt: c.now().UTC(),
		}
		src = SourceFallback
	}
	c.rememberUser(ctx, out)
	return out, src
}

// UpdateUser writes the user record, echoing the input on failure.
func (c *Client) UpdateUser(ctx context.Context, u User) (User, Source) {
	var out User
	if err := c.do(ctx, http.MethodPut, userPath(u.ID), u, &out); err != nil {
		c.warn("update user", err, zap.String("user", u.ID))
		c.rememberUser(ctx, u)
		return u, SourceFallback
	}
	if out.ID == "" {
		out.ID = u.ID
	}
	c.rememberUser(ctx, out)
	return out, SourceRemote
}

func (c *Client) cacheProfile(ctx context.Context, key string, p Profile) {
	if strings.HasSuffix(key, "_") {
		return
	}
	if err := setJSON(ctx, c.Fallback, key, p); err != nil {
		c.logger.Warn("Remote Client: failed to cache profile", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) rememberUser(ctx context.Context, u User) {
	if err := setJSON(ctx, c.Fallback, KeyCurrentUser, u); err != nil {
		c.logger.Warn("Remote Client: failed to cache current user", zap.Error(err))
	}
	if err := c.Fallback.Set(ctx, KeyUserEmail, []byte(u.Email)); err != nil {
		c.logger.Warn("Remote Client: failed to cache user email", zap.Error(err))
	}
}
