package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/EasterCompany/package-builder-service/internal/session"
)

func sessionPath(id string) string {
	return "/package-builder/sessions/" + url.PathEscape(id)
}

// GetSession fetches the mirrored record. A 404 maps to session.ErrNotFound.
func (c *Client) GetSession(ctx context.Context, id string) (*session.Record, error) {
	var rec session.Record
	if err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &rec); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	if rec.SessionID == "" {
		rec.SessionID = id
	}
	return &rec, nil
}

func (c *Client) PutSession(ctx context.Context, rec *session.Record) error {
	return c.do(ctx, http.MethodPut, sessionPath(rec.SessionID), rec, nil)
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, sessionPath(id), nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return session.ErrNotFound
	}
	return err
}

// SessionMirror adapts the client to session.Repository so the store can
// use the API as its remote medium.
type SessionMirror struct {
	client *Client
}

func NewSessionMirror(c *Client) *SessionMirror {
	return &SessionMirror{client: c}
}

func (m *SessionMirror) Get(ctx context.Context, id string) (*session.Record, error) {
	return m.client.GetSession(ctx, id)
}

func (m *SessionMirror) Put(ctx context.Context, rec *session.Record) error {
	return m.client.PutSession(ctx, rec)
}

func (m *SessionMirror) Delete(ctx context.Context, id string) error {
	return m.client.DeleteSession(ctx, id)
}
