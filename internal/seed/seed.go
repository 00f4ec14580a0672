// Package seed loads demo accounts and events into an empty database.
package seed

import (
	"context"
	"log"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/events"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"github.com/gdg-garage/campus-events-api/internal/users"
)

type account struct {
	name     string
	email    string
	password string
	role     models.Role
}

var accounts = []account{
	{"Admin User", "admin@college.edu", "admin123", models.RoleAdmin},
	{"John Doe", "john@college.edu", "student123", models.RoleStudent},
	{"Jane Smith", "jane@college.edu", "student123", models.RoleStudent},
}

var catalogue = []events.Input{
	{
		Title:       "Web Development Workshop",
		Description: "Learn React, Node.js, and modern web development practices. Covers frontend and backend technologies.",
		Date:        "2025-12-15",
		Time:        "10:00 AM",
		Venue:       "Tech Building - Room 101",
	},
	{
		Title:       "AI & Machine Learning Seminar",
		Description: "Deep dive into AI applications, neural networks and real-world ML implementations.",
		Date:        "2025-12-20",
		Time:        "2:00 PM",
		Venue:       "Science Hall - Auditorium",
	},
	{
		Title:       "Annual Code Challenge",
		Description: "Compete in coding challenges and win prizes.",
		Date:        "2025-12-25",
		Time:        "11:00 AM",
		Venue:       "Computer Lab - Building A",
	},
	{
		Title:       "Career Fair 2025",
		Description: "Meet tech companies and explore internship opportunities.",
		Date:        "2026-01-10",
		Time:        "1:00 PM",
		Venue:       "Main Campus - Outdoor Grounds",
	},
	{
		Title:       "Cloud Computing Bootcamp",
		Description: "Cloud infrastructure, deployment and scalability on AWS, Azure and GCP.",
		Date:        "2026-01-15",
		Time:        "9:00 AM",
		Venue:       "Innovation Lab - Building C",
	},
}

type Result struct {
	UsersCreated  int
	EventsCreated int
}

// Run creates the demo accounts that do not exist yet and, when the catalogue
// is empty, the demo events. Running it twice is harmless.
func Run(ctx context.Context, repo *users.Repository, evs *events.Service, hasher *auth.PasswordHasher) (Result, error) {
	var res Result
	var adminID uint

	for _, a := range accounts {
		existing, err := repo.GetByEmail(ctx, a.email)
		switch {
		case err == nil:
			if a.role == models.RoleAdmin {
				adminID = existing.ID
			}
			continue
		case !apperr.IsKind(err, apperr.KindNotFound):
			return res, err
		}

		digest, err := hasher.Hash(a.password)
		if err != nil {
			return res, err
		}
		u := &models.User{Name: a.name, Email: a.email, PasswordHash: digest, Role: a.role}
		if err := repo.Create(ctx, u); err != nil {
			return res, err
		}
		if a.role == models.RoleAdmin {
			adminID = u.ID
		}
		res.UsersCreated++
		log.Printf("Seeded %s user %s", a.role, a.email)
	}

	existing, err := evs.List(ctx)
	if err != nil {
		return res, err
	}
	if len(existing) > 0 {
		return res, nil
	}
	for _, in := range catalogue {
		if _, err := evs.Create(ctx, adminID, in); err != nil {
			return res, err
		}
		res.EventsCreated++
	}
	log.Printf("Seeded %d events", res.EventsCreated)
	return res, nil
}
