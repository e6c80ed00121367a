package expo

// PushMessage is one notification addressed to a single Expo push token.
type PushMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

const (
	TicketStatusOk    = "ok"
	TicketStatusError = "error"

	errorDeviceNotRegistered = "DeviceNotRegistered"
)

// PushTicket is the per-message receipt returned by the push service, in
// the same order the messages were submitted.
type PushTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// DeviceNotRegistered reports whether the addressed device no longer holds
// a valid push token. The subscriber should be reported upstream.
func (t PushTicket) DeviceNotRegistered() bool {
	return t.Status == TicketStatusError && t.Details.Error == errorDeviceNotRegistered
}
