package alerts

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Handlers below parse payloads and hand them to the mailer.

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Error().Err(err).Str("to", p.Email).Msg("welcome email send failed")
		return err
	}
	log.Info().Str("to", p.Email).Str("user", p.UserID).Msg("welcome email sent")
	return nil
}

func handleApplicationReceived(_ context.Context, t *asynq.Task) error {
	var p ApplicationReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Error().Err(err).Str("application", p.ApplicationID).Msg("application received email send failed")
		return err
	}
	log.Info().Str("application", p.ApplicationID).Str("to", p.Email).Msg("application received email sent")
	return nil
}

func handleApplicationDecided(_ context.Context, t *asynq.Task) error {
	var p ApplicationDecidedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Error().Err(err).Str("application", p.ApplicationID).Msg("application decided email send failed")
		return err
	}
	log.Info().Str("application", p.ApplicationID).Str("decision", p.Decision).Msg("application decided email sent")
	return nil
}
