package events

var PushTokenInvalidTopic = "PushTokenInvalidEvent"

// PushTokenInvalid is published when the push service reports a delivery
// address as unregistered. Deactivating the subscriber is up to whoever
// owns the interest records; this service only reports.
type PushTokenInvalid struct {
	PushToken string
	Reason    string
}
