// Package seed loads the default admin account and its starter checklist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "123456"
)

const (
	projectName        = "Frontend UI/UX Checklist"
	projectDescription = "Comprehensive checklist for frontend development covering accessibility, responsiveness, performance, and cross-browser testing."
)

// Options controls which admin account is seeded
type Options struct {
	AdminUsername string
	AdminPassword string
}

// store is the subset of database.DataStore the seeder writes through
type store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	CreateProject(ctx context.Context, userID types.UserID, name string, description *string) (*models.Project, error)
	CreateTask(ctx context.Context, nt models.NewTask) (*models.Task, error)
}

type taskSeed struct {
	name        string
	description string
	priority    models.Priority
	deadline    string
	time        string
}

var checklist = []taskSeed{
	{"Implement semantic HTML structure", "Use proper HTML5 semantic elements (header, nav, main, section, article, aside, footer) for better accessibility and SEO.", models.PriorityHigh, "2025-01-20", "14:00"},
	{"Add alt text to all images", "Ensure all images have descriptive alt attributes. Decorative images should have empty alt attributes.", models.PriorityHigh, "2025-01-18", "10:30"},
	{"Implement ARIA labels where needed", "Add ARIA labels to interactive elements, form controls, and complex UI components for screen readers.", models.PriorityMedium, "2025-01-22", "16:00"},
	{"Ensure color contrast passes WCAG AA", "Test all text and background color combinations to meet 4.5:1 contrast ratio requirement.", models.PriorityHigh, "2025-01-19", "11:00"},
	{"Test keyboard navigation", "Ensure all interactive elements are accessible via keyboard and tab order is logical.", models.PriorityMedium, "2025-01-23", "15:30"},
	{"Test mobile, tablet, and desktop breakpoints", "Verify layout works correctly across all major device sizes and orientations.", models.PriorityHigh, "2025-01-21", "09:00"},
	{"Ensure touch targets are ≥48x48px", "All buttons, links, and interactive elements should be large enough for touch interaction.", models.PriorityMedium, "2025-01-24", "13:00"},
	{"Implement responsive images", "Use responsive image techniques (srcset, sizes, picture element) for optimal loading.", models.PriorityMedium, "2025-01-25", "10:00"},
	{"Implement lazy loading for images", "Add loading='lazy' attribute and intersection observer for below-the-fold images.", models.PriorityMedium, "2025-01-26", "14:30"},
	{"Optimize Core Web Vitals", "Achieve Lighthouse Performance score >90 by optimizing LCP, FID, and CLS metrics.", models.PriorityHigh, "2025-01-27", "11:30"},
	{"Add loading states and feedback", "Implement spinners, skeleton screens, and progress indicators for all async operations.", models.PriorityMedium, "2025-01-29", "12:00"},
	{"Test in Chrome, Safari, Firefox", "Verify functionality and appearance across major modern browsers.", models.PriorityMedium, "2025-02-03", "14:00"},
}

// Run creates the admin user with one starter project. It does nothing when
// the admin already exists, so a persistent store is only seeded once.
func Run(ctx context.Context, s store, opts Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AdminUsername == "" {
		opts.AdminUsername = DefaultAdminUsername
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}

	_, err := s.GetUserByUsername(ctx, opts.AdminUsername)
	if err == nil {
		logger.Debug("seed data already present", "username", opts.AdminUsername)
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up seed user: %w", err)
	}

	admin, err := s.CreateUser(ctx, opts.AdminUsername, opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to create seed user: %w", err)
	}

	description := projectDescription
	project, err := s.CreateProject(ctx, admin.ID, projectName, &description)
	if err != nil {
		return fmt.Errorf("failed to create seed project: %w", err)
	}

	for _, ts := range checklist {
		desc, deadline, at := ts.description, ts.deadline, ts.time
		_, err := s.CreateTask(ctx, models.NewTask{
			Name:        ts.name,
			Description: &desc,
			Deadline:    &deadline,
			Time:        &at,
			Priority:    ts.priority,
			ProjectID:   project.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to create seed task '%s': %w", ts.name, err)
		}
	}

	logger.Info("seeded default data",
		"username", admin.Username,
		"project_id", project.ID,
		"tasks", len(checklist))
	return nil
}
