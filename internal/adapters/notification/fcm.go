// Package notification delivers best-effort push notifications. Delivery
// failures are logged and never propagate into financial flows.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"

	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
)

// FCMNotifier sends push notifications through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
	logger *slog.Logger
}

// NewFCMNotifier initializes the Firebase app from a service account file.
// An empty credentials path returns a disabled notifier rather than an error
// so environments without Firebase still boot.
func NewFCMNotifier(ctx context.Context, credentialsFile string, logger *slog.Logger) (*FCMNotifier, error) {
	if credentialsFile == "" {
		logger.Warn("FCM credentials file not configured, push notifications disabled")
		return &FCMNotifier{logger: logger}, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}
	return &FCMNotifier{client: client, logger: logger}, nil
}

// Ensure FCMNotifier implements the Notifier port
var _ portssvc.Notifier = (*FCMNotifier)(nil)

// Send delivers one message to a device token. A nil client or empty token is
// a silent no-op.
func (n *FCMNotifier) Send(ctx context.Context, fcmToken string, title string, body string, data map[string]string) error {
	if n.client == nil || fcmToken == "" {
		return nil
	}

	message := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		n.logger.Warn("Failed to send push notification", slog.String("error", err.Error()))
		return err
	}
	return nil
}
