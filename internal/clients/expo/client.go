package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	pushURL = "https://exp.host/--/api/v2/push/send"

	// the push API rejects request bodies with more than 100 messages
	maxMessagesPerRequest = 100
)

type sendResponse struct {
	Tickets []PushTicket `json:"data"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	accessToken string
	rateLimiter *rate.Limiter
}

func NewClient(accessToken string) *Client {
	return &Client{httpClient: &http.Client{}, accessToken: accessToken}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// SendMessages submits the messages in API-sized chunks and returns one
// ticket per message, in submission order. A transport failure on any chunk
// fails the whole call.
func (c *Client) SendMessages(ctx context.Context, messages []PushMessage) ([]PushTicket, error) {

	tickets := make([]PushTicket, 0, len(messages))

	for start := 0; start < len(messages); start += maxMessagesPerRequest {
		end := start + maxMessagesPerRequest
		if end > len(messages) {
			end = len(messages)
		}

		chunkTickets, err := c.sendChunk(ctx, messages[start:end])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, chunkTickets...)
	}

	return tickets, nil
}

func (c *Client) sendChunk(ctx context.Context, messages []PushMessage) ([]PushTicket, error) {

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("error encoding messages: %v", err)
	}

	body, err := c.sendRequest(ctx, "POST", pushURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var response sendResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	if len(response.Tickets) != len(messages) {
		return nil, fmt.Errorf("expected %v tickets, got %v", len(messages), len(response.Tickets))
	}

	return response.Tickets, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
