package gmail

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const user = "me"

// Client fetches messages for the authenticated user.
type Client struct {
	srv *gmailapi.Service
}

// NewClient builds a Gmail client on top of an authenticated session.
// Extra options are appended after the session's HTTP client, so tests can
// point the service at a fake endpoint.
func NewClient(ctx context.Context, session *Session, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(session.HTTPClient())}, opts...)
	srv, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Gmail service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// FetchRecent lists up to maxResults message IDs matching query (empty
// query matches everything) and fetches each one in list order. A failed
// listing degrades to an empty result; a failed per-message fetch skips
// that message. Both are logged, neither aborts the batch.
func (c *Client) FetchRecent(ctx context.Context, maxResults int64, query string) []Message {
	call := c.srv.Users.Messages.List(user).MaxResults(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	list, err := call.Do()
	if err != nil {
		logrus.WithError(err).Error("Unable to list messages")
		return nil
	}
	if len(list.Messages) == 0 {
		return nil
	}

	messages := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		msg, err := c.fetchMessage(ctx, m.Id)
		if err != nil {
			logrus.WithError(err).WithField("id", m.Id).Error("Skipping message")
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (c *Client) fetchMessage(ctx context.Context, id string) (Message, error) {
	full, err := c.srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
	if err != nil {
		return Message{}, fmt.Errorf("fetching message: %w", err)
	}

	msg := Message{ID: id}
	if full.Payload != nil {
		msg.Subject = headerValue(full.Payload.Headers, "Subject")
		msg.From = headerValue(full.Payload.Headers, "From")
		msg.Date = headerValue(full.Payload.Headers, "Date")

		body, err := extractBody(full.Payload)
		if err != nil {
			return Message{}, err
		}
		msg.Body = body
	}
	return msg, nil
}
