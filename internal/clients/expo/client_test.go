package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// doFunc lets a test shape the response from the request body, which the
// static mock cannot do for chunked sends.
type doFunc func(req *http.Request) (*http.Response, error)

func (f doFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func messages(count int) []PushMessage {
	result := make([]PushMessage, count)
	for i := range result {
		result[i] = PushMessage{To: fmt.Sprintf("token-%v", i), Title: "New job at Acme", Body: "Engineer in SF"}
	}
	return result
}

func Test_SendMessages_ShouldParseTickets(t *testing.T) {

	httpClient := new(mockHTTPClient)
	client := NewClient("")
	client.SetHTTPClient(httpClient)

	httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == "POST" &&
			req.URL.String() == pushURL &&
			req.Header.Get("Content-Type") == "application/json"
	})).Return(jsonResponse(200, `{"data":[{"status":"ok","id":"ticket-1"}]}`), nil)

	tickets, err := client.SendMessages(context.Background(), messages(1))

	assert.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, TicketStatusOk, tickets[0].Status)
	assert.Equal(t, "ticket-1", tickets[0].ID)
}

func Test_SendMessages_WithAccessToken_ShouldSetAuthorizationHeader(t *testing.T) {

	httpClient := new(mockHTTPClient)
	client := NewClient("secret")
	client.SetHTTPClient(httpClient)

	httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == "Bearer secret"
	})).Return(jsonResponse(200, `{"data":[{"status":"ok"}]}`), nil)

	_, err := client.SendMessages(context.Background(), messages(1))

	assert.NoError(t, err)
	httpClient.AssertExpectations(t)
}

func Test_SendMessages_ShouldParseDeviceNotRegisteredTicket(t *testing.T) {

	httpClient := new(mockHTTPClient)
	client := NewClient("")
	client.SetHTTPClient(httpClient)

	httpClient.On("Do", mock.Anything).Return(jsonResponse(200,
		`{"data":[{"status":"error","message":"device gone","details":{"error":"DeviceNotRegistered"}}]}`), nil)

	tickets, err := client.SendMessages(context.Background(), messages(1))

	assert.NoError(t, err)
	assert.True(t, tickets[0].DeviceNotRegistered())
}

func Test_SendMessages_TicketCountMismatch_ShouldFail(t *testing.T) {

	httpClient := new(mockHTTPClient)
	client := NewClient("")
	client.SetHTTPClient(httpClient)

	httpClient.On("Do", mock.Anything).Return(jsonResponse(200, `{"data":[{"status":"ok"}]}`), nil)

	_, err := client.SendMessages(context.Background(), messages(2))

	assert.Error(t, err)
}

func Test_SendMessages_NonOkStatus_ShouldFail(t *testing.T) {

	httpClient := new(mockHTTPClient)
	client := NewClient("")
	client.SetHTTPClient(httpClient)

	httpClient.On("Do", mock.Anything).Return(jsonResponse(429, `{"errors":["rate limited"]}`), nil)

	_, err := client.SendMessages(context.Background(), messages(1))

	assert.Error(t, err)
}

func Test_SendMessages_LargeBatch_ShouldBeChunked(t *testing.T) {

	var requestSizes []int

	client := NewClient("")
	client.SetHTTPClient(doFunc(func(req *http.Request) (*http.Response, error) {
		var chunk []PushMessage
		if err := json.NewDecoder(req.Body).Decode(&chunk); err != nil {
			return nil, err
		}
		requestSizes = append(requestSizes, len(chunk))

		tickets := make([]PushTicket, len(chunk))
		for i := range tickets {
			tickets[i] = PushTicket{Status: TicketStatusOk}
		}
		body, _ := json.Marshal(sendResponse{Tickets: tickets})
		return jsonResponse(200, string(body)), nil
	}))

	tickets, err := client.SendMessages(context.Background(), messages(250))

	assert.NoError(t, err)
	assert.Len(t, tickets, 250)
	assert.Equal(t, []int{100, 100, 50}, requestSizes)
}
