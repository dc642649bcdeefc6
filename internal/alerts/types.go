package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail        = "email:welcome"
	TaskApplicationReceived = "email:application_received"
	TaskApplicationDecided  = "email:application_decided"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Application received payload (sent to the posting owner)
type ApplicationReceivedPayload struct {
	ApplicationID string        `json:"application_id"`
	JobID         string        `json:"job_id"`
	JobTitle      string        `json:"job_title"`
	WorkerID      string        `json:"worker_id"`
	Email         string        `json:"email"`
	Envelope      EmailEnvelope `json:"envelope"`
	SentAt        time.Time     `json:"sent_at"`
}

// Application decided payload (sent to the applicant)
type ApplicationDecidedPayload struct {
	ApplicationID string        `json:"application_id"`
	JobID         string        `json:"job_id"`
	JobTitle      string        `json:"job_title"`
	Decision      string        `json:"decision"`
	Email         string        `json:"email"`
	Envelope      EmailEnvelope `json:"envelope"`
	SentAt        time.Time     `json:"sent_at"`
}
