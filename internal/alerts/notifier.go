package alerts

import (
	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/user"
)

// Notifier adapts the queue to the workflow engine's notification hook.
type Notifier struct{}

func (Notifier) WelcomeUser(u user.User) {
	if err := EnqueueWelcomeEmail(u.ID, u.Email, u.Username); err != nil {
		log.Warn().Err(err).Str("user", u.ID).Msg("enqueue welcome email failed")
	}
}

func (Notifier) ApplicationReceived(a application.Application, p job.Posting, ownerEmail string) {
	if ownerEmail == "" {
		return
	}
	if err := EnqueueApplicationReceived(a.ID, p.ID, p.Title, a.WorkerID, ownerEmail); err != nil {
		log.Warn().Err(err).Str("application", a.ID).Msg("enqueue application received failed")
	}
}

func (Notifier) ApplicationDecided(a application.Application, p job.Posting, workerEmail string) {
	if workerEmail == "" {
		return
	}
	if err := EnqueueApplicationDecided(a.ID, p.ID, p.Title, string(a.Status), workerEmail); err != nil {
		log.Warn().Err(err).Str("application", a.ID).Msg("enqueue application decided failed")
	}
}
