package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"github.com/jobboardhq/jobboard-backend/internal/config"
	"github.com/jobboardhq/jobboard-backend/internal/database"
	"github.com/jobboardhq/jobboard-backend/internal/logging"
	"github.com/jobboardhq/jobboard-backend/internal/models"
)

// Seeds a provider account and a handful of sample jobs so a fresh
// environment has something to browse. Safe to run repeatedly: it exits
// without writing when any jobs already exist.
func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	var count int64
	if err := db.Model(&models.Job{}).Count(&count).Error; err != nil {
		slog.Error("job count failed", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		slog.Info("jobs already present, skipping seed", "count", count)
		return
	}

	provider := models.User{
		Name:              "Acme Recruiting",
		Email:             "provider@example.com",
		Password:          "password123",
		Role:              models.RoleJobProvider,
		IsProfileComplete: true,
	}
	if err := db.Where("email = ?", provider.Email).FirstOrCreate(&provider).Error; err != nil {
		slog.Error("provider seed failed", "error", err)
		os.Exit(1)
	}

	jobs := []models.Job{
		{
			Title:           "Senior Backend Engineer",
			Company:         "Acme Corp",
			Location:        "Remote",
			Description:     "Design and operate high-throughput Go services backing our hiring platform. You will own APIs end to end, from schema design through deployment, and mentor mid-level engineers.",
			Requirements:    datatypes.NewJSONSlice([]string{"Go", "PostgreSQL", "REST APIs", "Docker", "5+ years experience"}),
			SalaryRange:     "$140,000 - $180,000",
			ExperienceLevel: "Senior",
			Type:            "Full-time",
			PostedBy:        provider.ID,
		},
		{
			Title:           "Frontend Developer",
			Company:         "Acme Corp",
			Location:        "New York, NY",
			Description:     "Build accessible, responsive interfaces for job seekers and recruiters. You will work closely with design on our React component library and own performance budgets.",
			Requirements:    datatypes.NewJSONSlice([]string{"React", "TypeScript", "CSS", "Testing Library"}),
			SalaryRange:     "$100,000 - $130,000",
			ExperienceLevel: "Mid",
			Type:            "Full-time",
			PostedBy:        provider.ID,
		},
		{
			Title:           "Data Analyst",
			Company:         "Insight Labs",
			Location:        "Austin, TX",
			Description:     "Turn hiring-funnel events into dashboards and recommendations for our customers. SQL-heavy role with room to grow into data engineering.",
			Requirements:    datatypes.NewJSONSlice([]string{"SQL", "Python", "Tableau", "Statistics"}),
			SalaryRange:     "$85,000 - $110,000",
			ExperienceLevel: "Junior",
			Type:            "Full-time",
			PostedBy:        provider.ID,
		},
		{
			Title:           "DevOps Engineer",
			Company:         "Insight Labs",
			Location:        "Remote",
			Description:     "Own our Kubernetes clusters, CI pipelines, and observability stack. On-call rotation shared across the platform team.",
			Requirements:    datatypes.NewJSONSlice([]string{"Kubernetes", "Terraform", "AWS", "CI/CD", "Prometheus"}),
			SalaryRange:     "$120,000 - $155,000",
			ExperienceLevel: "Mid",
			Type:            "Full-time",
			PostedBy:        provider.ID,
		},
		{
			Title:           "Product Design Intern",
			Company:         "Acme Corp",
			Location:        "San Francisco, CA",
			Description:     "Summer internship on the candidate-experience team. You will ship real design work under mentorship, from user research through high-fidelity prototypes.",
			Requirements:    datatypes.NewJSONSlice([]string{"Figma", "User Research", "Prototyping"}),
			SalaryRange:     "$35/hour",
			ExperienceLevel: "Entry",
			Type:            "Internship",
			PostedBy:        provider.ID,
		},
	}

	if err := db.Create(&jobs).Error; err != nil {
		slog.Error("job seed failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seed complete", "provider", provider.Email, "jobs", len(jobs))
}
