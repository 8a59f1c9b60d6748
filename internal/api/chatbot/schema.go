package chatbot

import (
	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/sessions"
)

// Request is the POST /chatbot body. A missing thread_id starts a new thread.
type Request struct {
	Message  string `json:"message" binding:"required"`
	ThreadID string `json:"thread_id"`
}

type Response struct {
	Response  string `json:"response"`
	ThreadID  string `json:"thread_id"`
	RequestID string `json:"request_id,omitempty"`
}

// FilteredResponse is returned when the message was answered from the roster.
// Customers is always present, possibly empty.
type FilteredResponse struct {
	Response
	Customers []customers.Customer `json:"customers"`
}

type HistoryResponse struct {
	ThreadID string          `json:"thread_id"`
	Turns    []sessions.Turn `json:"turns"`
}
