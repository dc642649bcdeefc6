// Command seed loads a small set of sample marketplace data for local
// development: a client, two workers, a handful of postings, plus
// applications and reviews exercising the whole workflow.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jualabs/juajobs/internal/config"
	"github.com/jualabs/juajobs/internal/db"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store/postgres"
	"github.com/jualabs/juajobs/internal/validation"
	"github.com/jualabs/juajobs/internal/workflow"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer pool.Close()

	st := postgres.New(pool)
	engine := workflow.New(st, nil, nil, validation.New(), log)

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash password")
		}
		return string(h)
	}

	seedUsers := []user.User{
		{Email: "amina@example.com", Username: "amina_client", PasswordHash: hash("password123"), Role: user.RoleClient, PhoneNumber: "+254712345678", Country: "KE", City: "Nairobi"},
		{Email: "kwame@example.com", Username: "kwame_dev", PasswordHash: hash("password123"), Role: user.RoleWorker, PhoneNumber: "+233241234567", Country: "GH", City: "Accra"},
		{Email: "zainab@example.com", Username: "zainab_designer", PasswordHash: hash("password123"), Role: user.RoleWorker, PhoneNumber: "+2348012345678", Country: "NG", City: "Lagos"},
	}
	users := make([]user.User, 0, len(seedUsers))
	for _, u := range seedUsers {
		created, err := st.CreateUser(ctx, u)
		if err != nil {
			// Re-running the seeder against an existing database is fine.
			existing, getErr := st.GetUserByEmail(ctx, u.Email)
			if getErr != nil {
				log.Fatal().Err(err).Str("email", u.Email).Msg("seed user")
			}
			created = existing
		}
		users = append(users, created)
	}
	client, workerOne, workerTwo := users[0], users[1], users[2]

	postings := []workflow.JobInput{
		{Title: "Backend developer for payments integration", Description: "Integrate mobile money rails into our checkout.", SalaryMin: 90000, SalaryMax: 140000, EmploymentType: "contract", Location: "Nairobi", RemoteWork: true},
		{Title: "Product designer", Description: "Own the design system for our marketplace apps.", SalaryMin: 60000, SalaryMax: 100000, EmploymentType: "full_time", Location: "Lagos"},
		{Title: "Data entry assistant", Description: "Digitize supplier records.", EmploymentType: "part_time", Location: "Accra"},
	}
	var jobIDs []string
	for _, in := range postings {
		p, err := engine.CreateJobPosting(ctx, client, in)
		if err != nil {
			log.Fatal().Err(err).Str("title", in.Title).Msg("seed job")
		}
		jobIDs = append(jobIDs, p.ID)
	}

	apps := []struct {
		worker user.User
		jobID  string
		letter string
	}{
		{workerOne, jobIDs[0], "I have shipped three M-Pesa integrations."},
		{workerTwo, jobIDs[1], "Portfolio available on request."},
		{workerOne, jobIDs[2], "Available evenings and weekends."},
	}
	var appIDs []string
	for _, a := range apps {
		created, err := engine.CreateApplication(ctx, a.worker, workflow.ApplicationInput{JobID: a.jobID, CoverLetter: a.letter})
		if err != nil {
			log.Fatal().Err(err).Str("job", a.jobID).Msg("seed application")
		}
		appIDs = append(appIDs, created.ID)
	}

	if _, err := engine.AcceptApplication(ctx, client, appIDs[0]); err != nil {
		log.Fatal().Err(err).Msg("seed accept")
	}

	reviewPairs := []struct {
		author   user.User
		reviewee string
		jobID    string
		rating   int
		comment  string
	}{
		{client, workerOne.ID, jobIDs[0], 5, "Delivered ahead of schedule."},
		{workerOne, client.ID, jobIDs[0], 4, "Clear requirements, prompt payment."},
	}
	for _, r := range reviewPairs {
		if _, err := engine.CreateReview(ctx, r.author, workflow.ReviewInput{
			RevieweeID: r.reviewee, JobID: r.jobID, Rating: r.rating, Comment: r.comment,
		}); err != nil {
			log.Fatal().Err(err).Msg("seed review")
		}
	}

	if _, err := engine.CreatePayment(ctx, client, workflow.PaymentInput{
		ReceiverID: workerOne.ID, JobID: jobIDs[0], Amount: 120000, Currency: "KES",
	}); err != nil {
		log.Fatal().Err(err).Msg("seed payment")
	}

	log.Info().Int("users", len(users)).Int("jobs", len(jobIDs)).Msg("sample data loaded")
}
