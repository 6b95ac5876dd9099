// README: ClickSend SMS gateway client.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const clickSendURL = "https://rest.clicksend.com/v3/sms/send"

// ClickSendClient implements Sender against the ClickSend REST API.
type ClickSendClient struct {
	client   *resty.Client
	username string
	apiKey   string
	from     string
}

func NewClickSendClient(client *resty.Client, username, apiKey, from string) *ClickSendClient {
	return &ClickSendClient{client: client, username: username, apiKey: apiKey, from: from}
}

var _ Sender = (*ClickSendClient)(nil)

type clickSendMessage struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type clickSendPayload struct {
	Messages []clickSendMessage `json:"messages"`
}

func (c *ClickSendClient) Send(ctx context.Context, to, body string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.username, c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(clickSendPayload{
			Messages: []clickSendMessage{{From: c.from, To: to, Body: body}},
		}).
		Post(clickSendURL)
	if err != nil {
		return fmt.Errorf("clicksend: send to %s: %w", to, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("clicksend: send to %s: %s", to, resp.Status())
	}
	return nil
}
