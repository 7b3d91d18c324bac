package alert

import "errors"

var (
	ErrInvalidConfig  = errors.New("alert: invalid notifier configuration")
	ErrDeliveryFailed = errors.New("alert: failed to deliver message")
)
