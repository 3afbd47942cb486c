package domain

import (
	"context"
	"strings"
)

const (
	PushStatusOK    = "ok"
	PushStatusError = "error"
)

// Gateway-reported error kinds we care about. Anything else is carried
// through verbatim in Ticket.ErrorKind.
const (
	PushErrDeviceNotRegistered = "DeviceNotRegistered"
	PushErrInvalidCredentials  = "InvalidCredentials"
	PushErrMessageTooBig       = "MessageTooBig"
)

type PushMessage struct {
	To       string
	Title    string
	Body     string
	Data     map[string]any
	Sound    string
	Badge    int
	Priority string
}

// PushTicket is the gateway's per-message verdict. A ticket with status
// "error" is an expected outcome, not a Go error; transport failures are
// returned as errors by the client instead.
type PushTicket struct {
	Status    string
	ErrorKind string
}

func (t PushTicket) Delivered() bool {
	return t.Status == PushStatusOK
}

type PushClient interface {
	Send(ctx context.Context, msg PushMessage) (*PushTicket, error)
	SendBatch(ctx context.Context, msgs []PushMessage) ([]PushTicket, error)
}

// ValidPushToken reports whether a token is shaped like an Expo push token.
func ValidPushToken(token string) bool {
	if len(token) <= 20 || !strings.HasSuffix(token, "]") {
		return false
	}
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}
