package notify

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const sendTimeout = 10 * time.Second

// FCMNotifier delivers notifications through Firebase Cloud Messaging.
type FCMNotifier struct {
	client  *messaging.Client
	timeout time.Duration
}

// NewFCMNotifier initializes the Firebase app from a service-account
// credentials file and returns a ready messaging client.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMNotifier{client: client, timeout: sendTimeout}, nil
}

// Send submits one multicast message to all tokens. The call is bounded by
// a timeout so a hung transport cannot stall a dispatch tick forever.
func (n *FCMNotifier) Send(ctx context.Context, tokens []string, msg Message) (*Result, error) {
	if len(tokens) == 0 {
		return &Result{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	resp, err := n.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Success: resp.SuccessCount,
		Failure: resp.FailureCount,
	}
	for i, r := range resp.Responses {
		if r.Success || r.Error == nil {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}
	return result, nil
}
