package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
	webpush "github.com/SherClockHolmes/webpush-go"
	"io"
	"net/http"
)

// VAPIDConfig holds the application server keys. Contact is a mailto: or https: URL.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Contact    string
}

func (c VAPIDConfig) IsComplete() bool {
	return c.PublicKey != "" && c.PrivateKey != "" && c.Contact != ""
}

// WebPushTransport signs and encrypts payloads with webpush-go and posts them to the subscription endpoint.
type WebPushTransport struct {
	vapid      VAPIDConfig
	ttl        int
	urgency    webpush.Urgency
	httpClient *http.Client
}

func NewWebPushTransport(vapid VAPIDConfig, ttlSeconds int, httpClient *http.Client) (*WebPushTransport, error) {
	if !vapid.IsComplete() {
		return nil, fmt.Errorf("%w: missing VAPID keys or contact", custom_errors.ErrTransportUnavailable)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WebPushTransport{
		vapid:      vapid,
		ttl:        ttlSeconds,
		urgency:    webpush.UrgencyNormal,
		httpClient: httpClient,
	}, nil
}

func (w *WebPushTransport) Send(ctx context.Context, destination types.Destination, payload types.Payload) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", custom_errors.ErrTransport, err)
	}

	sub := &webpush.Subscription{
		Endpoint: destination.Endpoint,
		Keys: webpush.Keys{
			P256dh: destination.Keys.P256dh,
			Auth:   destination.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, sub, &webpush.Options{
		HTTPClient:      w.httpClient,
		Subscriber:      w.vapid.Contact,
		VAPIDPublicKey:  w.vapid.PublicKey,
		VAPIDPrivateKey: w.vapid.PrivateKey,
		TTL:             w.ttl,
		Urgency:         w.urgency,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", custom_errors.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: push service responded %d", custom_errors.ErrTransport, resp.StatusCode)
	}
	return nil
}
