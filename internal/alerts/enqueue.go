package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

func enqueue(taskType string, payload any) error {
	if client == nil {
		return fmt.Errorf("alerts not initialized")
	}
	b, _ := json.Marshal(payload)
	_, err := client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue("emails"))
	return err
}

// EnqueueWelcomeEmail schedules a welcome email to a new user.
func EnqueueWelcomeEmail(userID, email, username string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to JuaJobs, %s!", username),
		Body:    fmt.Sprintf("Hi %s, thanks for joining JuaJobs. Complete your profile to start %s.", username, "hiring or applying"),
	}
	return enqueue(TaskWelcomeEmail, WelcomeEmailPayload{
		UserID: userID, Username: username, Email: email, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueApplicationReceived notifies the posting owner of a new
// application.
func EnqueueApplicationReceived(applicationID, jobID, jobTitle, workerID, ownerEmail string) error {
	env := EmailEnvelope{
		To:      ownerEmail,
		Subject: fmt.Sprintf("New application for %q", jobTitle),
		Body:    fmt.Sprintf("A worker applied to your posting %q. Review the application in your dashboard.", jobTitle),
	}
	return enqueue(TaskApplicationReceived, ApplicationReceivedPayload{
		ApplicationID: applicationID, JobID: jobID, JobTitle: jobTitle,
		WorkerID: workerID, Email: ownerEmail, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueApplicationDecided notifies the applicant that the owner
// accepted or rejected their application.
func EnqueueApplicationDecided(applicationID, jobID, jobTitle, decision, workerEmail string) error {
	env := EmailEnvelope{
		To:      workerEmail,
		Subject: fmt.Sprintf("Your application for %q was %s", jobTitle, decision),
		Body:    fmt.Sprintf("Your application for %q has been %s.", jobTitle, decision),
	}
	return enqueue(TaskApplicationDecided, ApplicationDecidedPayload{
		ApplicationID: applicationID, JobID: jobID, JobTitle: jobTitle,
		Decision: decision, Email: workerEmail, Envelope: env, SentAt: time.Now(),
	})
}
