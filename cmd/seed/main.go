package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/database/postgres"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/db"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/slug"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var careerPool = []string{
	"backend", "frontend", "mobile", "data-science", "devops",
	"product", "design", "security", "qa", "machine-learning",
}

// seed populates a development database with fake mentors, mentees and
// a handful of accepted connections. Never run against production.
func main() {
	mentorCount := flag.Int("mentors", 15, "number of mentors to create")
	menteeCount := flag.Int("mentees", 30, "number of mentees to create")
	seed := flag.Int64("seed", 0, "deterministic seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "mentorlinq-seed",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: 4,
		MinConns: 1,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	client := postgres.NewClient(pool)

	// One shared hash keeps seeding fast; every account logs in with the
	// same development password.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	mentorIDs := make([]int64, 0, *mentorCount)
	for i := 0; i < *mentorCount; i++ {
		name := gofakeit.Name()
		mentor, err := client.CreateMentor(ctx, &models.Mentor{
			Email:             gofakeit.Email(),
			PasswordHash:      string(passwordHash),
			Name:              name,
			Slug:              fmt.Sprintf("pending-seed-%d", i),
			Specialization:    gofakeit.JobTitle(),
			InternshipCompany: gofakeit.Company(),
			ExperienceYears:   gofakeit.Number(1, 15),
			Bio:               gofakeit.Paragraph(1, 3, 12, " "),
			LinkedinURL:       "https://linkedin.com/in/" + gofakeit.Username(),
			Skills:            pickTags(4),
			CareerAreas:       pickTags(4),
		})
		if err != nil {
			logger.Warn("Skipping mentor", zap.Error(err))
			continue
		}
		if err := client.UpdateMentorSlug(ctx, mentor.ID, slug.GenerateProfileSlug(name, mentor.ID)); err != nil {
			logger.Warn("Failed to assign slug", zap.Int64("mentor_id", mentor.ID), zap.Error(err))
		}
		mentorIDs = append(mentorIDs, mentor.ID)
	}

	menteeIDs := make([]int64, 0, *menteeCount)
	for i := 0; i < *menteeCount; i++ {
		mentee, err := client.CreateMentee(ctx, &models.Mentee{
			Email:           gofakeit.Email(),
			PasswordHash:    string(passwordHash),
			Name:            gofakeit.Name(),
			Specialization:  gofakeit.JobTitle(),
			Bio:             gofakeit.Paragraph(1, 2, 12, " "),
			LinkedinURL:     "https://linkedin.com/in/" + gofakeit.Username(),
			CareerInterests: pickTags(2),
			MentorshipAreas: pickTags(2),
		})
		if err != nil {
			logger.Warn("Skipping mentee", zap.Error(err))
			continue
		}
		menteeIDs = append(menteeIDs, mentee.ID)
	}

	// Each mentee sends a request to one random mentor; roughly half get
	// accepted so the connections projection has data.
	accepted := 0
	for _, menteeID := range menteeIDs {
		if len(mentorIDs) == 0 {
			break
		}
		mentorID := mentorIDs[gofakeit.Number(0, len(mentorIDs)-1)]
		request, err := client.CreateConnectionRequest(ctx, menteeID, mentorID)
		if err != nil {
			logger.Warn("Skipping request", zap.Error(err))
			continue
		}
		if gofakeit.Bool() {
			if _, err := client.AcceptAndConnect(ctx, request.ID); err != nil {
				logger.Warn("Failed to accept request", zap.Int64("request_id", request.ID), zap.Error(err))
				continue
			}
			accepted++
		}
	}

	logger.Info("Seeding complete",
		zap.Int("mentors", len(mentorIDs)),
		zap.Int("mentees", len(menteeIDs)),
		zap.Int("accepted_connections", accepted))
}

func pickTags(max int) []string {
	n := gofakeit.Number(1, max)
	tags := make([]string, 0, n)
	seen := map[string]bool{}
	for len(tags) < n {
		tag := careerPool[gofakeit.Number(0, len(careerPool)-1)]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
