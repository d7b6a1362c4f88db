package response

import "regbot/lib/clock"

type Response struct {
	Success       bool   `json:"success" validate:"required"`
	StatusMessage string `json:"status_message"`
	Timestamp     string `json:"timestamp"`
}

func Error(message string) Response {
	return Response{
		Success:       false,
		StatusMessage: message,
		Timestamp:     clock.Now(),
	}
}

// Ack is the body returned to Telegram for a webhook delivery.
type Ack struct {
	Ok bool `json:"ok"`
}
