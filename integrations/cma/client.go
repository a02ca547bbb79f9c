// Package cma is a minimal client for the widget endpoints of the content
// management API. It is what the fixture's end-to-end tests drive.
package cma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/siegeai/widgetmock/fakeapi"
)

type Client struct {
	AccessToken string
	Server      string
	HTTP        *http.Client
}

var (
	ErrUnexpectedResponse = errors.New("unexpected response code")
	ErrVersionMismatch    = errors.New("version mismatch")
	ErrNotFound           = errors.New("not found")
)

// Error is a failed call that came back with an error body.
type Error struct {
	StatusCode int
	Body       fakeapi.APIError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Body.Sys.ID, e.Body.Message)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrUnexpectedResponse
}

func NewClient(accessToken, server string) (*Client, error) {
	if _, err := url.Parse(server); err != nil {
		return nil, err
	}
	client := &Client{
		AccessToken: accessToken,
		Server:      server,
		HTTP:        &http.Client{},
	}
	return client, nil
}

type Collection struct {
	Total int              `json:"total"`
	Items []fakeapi.Widget `json:"items"`
}

func (c *Client) CreateWidget(ctx context.Context, space string, fields map[string]any) (*fakeapi.Widget, error) {
	res, err := c.do(ctx, http.MethodPost, widgetsPath(space), fields, 0)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return decodeWidget(res, http.StatusCreated)
}

// PutWidget creates the widget when version is 0 and updates it otherwise.
func (c *Client) PutWidget(ctx context.Context, space, id string, version int, fields map[string]any) (*fakeapi.Widget, error) {
	res, err := c.do(ctx, http.MethodPut, widgetPath(space, id), fields, version)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return nil, ErrVersionMismatch
	}
	if version == 0 {
		return decodeWidget(res, http.StatusCreated)
	}
	return decodeWidget(res, http.StatusOK)
}

// GetWidget returns nil and no error when the server has nothing stored under id.
func (c *Client) GetWidget(ctx context.Context, space, id string) (*fakeapi.Widget, error) {
	res, err := c.do(ctx, http.MethodGet, widgetPath(space, id), nil, 0)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, readError(res)
	}

	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if len(bs) == 0 {
		return nil, nil
	}

	var w fakeapi.Widget
	if err := json.Unmarshal(bs, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListWidgets(ctx context.Context, space string) (*Collection, error) {
	res, err := c.do(ctx, http.MethodGet, widgetsPath(space), nil, 0)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, readError(res)
	}

	var col Collection
	if err := json.NewDecoder(res.Body).Decode(&col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) DeleteWidget(ctx context.Context, space, id string, version int) error {
	res, err := c.do(ctx, http.MethodDelete, widgetPath(space, id), nil, version)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return ErrVersionMismatch
	default:
		return readError(res)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body map[string]any, version int) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.formatURL(path), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Add("Content-Type", fakeapi.MediaType)
	}
	if version > 0 {
		req.Header.Add("X-Contentful-Version", strconv.Itoa(version))
	}

	return c.HTTP.Do(req)
}

func decodeWidget(res *http.Response, want int) (*fakeapi.Widget, error) {
	if res.StatusCode != want {
		return nil, readError(res)
	}
	var w fakeapi.Widget
	if err := json.NewDecoder(res.Body).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

func readError(res *http.Response) error {
	e := &Error{StatusCode: res.StatusCode}
	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: could not read error body: %v", e, err)
	}
	if len(bs) == 0 {
		return e
	}
	if err := json.Unmarshal(bs, &e.Body); err != nil {
		return fmt.Errorf("%w: could not decode error body: %v", e, err)
	}
	return e
}

func widgetsPath(space string) string {
	return fmt.Sprintf("/spaces/%s/widgets", url.PathEscape(space))
}

func widgetPath(space, id string) string {
	return fmt.Sprintf("/spaces/%s/widgets/%s", url.PathEscape(space), url.PathEscape(id))
}

func (c *Client) formatURL(path string) string {
	q := url.Values{"access_token": []string{c.AccessToken}}
	return fmt.Sprintf("%s%s?%s", c.Server, path, q.Encode())
}
