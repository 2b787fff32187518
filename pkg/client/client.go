// Package client is the Go SDK for the concierge API. A Client is stateless
// apart from its transport; identity lives in an explicit *Session that the
// caller passes to every authenticated call.
package client

import (
	"net/http"
	"time"
)

type Client struct {
	HTTP     *HttpClient
	Auth     *AuthClient
	Members  *MemberClient
	Bookings *BookingClient
	Rewards  *RewardsClient
	Catalog  *CatalogClient
	Notify   *NotificationClient
}

type Option func(*HttpClient)

func WithTimeout(timeout time.Duration) Option {
	return func(c *HttpClient) { c.HTTPClient.Timeout = timeout }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HttpClient) { c.HTTPClient = httpClient }
}

func New(baseURL string, opts ...Option) *Client {
	httpClient := NewHttpClient(baseURL)
	for _, opt := range opts {
		opt(httpClient)
	}
	return &Client{
		HTTP:     httpClient,
		Auth:     NewAuthClient(httpClient),
		Members:  NewMemberClient(httpClient),
		Bookings: NewBookingClient(httpClient),
		Rewards:  NewRewardsClient(httpClient),
		Catalog:  NewCatalogClient(httpClient),
		Notify:   NewNotificationClient(httpClient),
	}
}
