package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/madrasa/backoffice/internal/app/models"
	appRepos "github.com/madrasa/backoffice/internal/app/repositories"
	"github.com/madrasa/backoffice/internal/config"
	"github.com/madrasa/backoffice/internal/db"
	"github.com/madrasa/backoffice/internal/pkg/auth"
)

// CreateDefaultData makes sure a super admin exists so a fresh installation can
// be administered. It is a no-op when seeding is disabled or a super admin is
// already present. The employee and its admin account are created together.
func CreateDefaultData(ctx context.Context, conn db.DBTX, cfg *config.Config, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}

	exists, err := appRepos.NewAdminRepository(conn).HasRole(ctx, appModels.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("error checking for super admin: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Super admin present, skipping default data")
		return nil
	}

	if cfg.Seed.AdminPassword == "" {
		lgr.Warn().Msg("No super admin exists and seed.admin_password is empty; skipping default admin")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("error hashing default admin password: %w", err)
	}

	var adminID int64
	err = db.WithTransaction(ctx, conn, func(ctx context.Context, tx pgx.Tx) error {
		employee := &appModels.Employee{
			Name:        cfg.Seed.AdminName,
			Designation: "Administrator",
			Phone:       cfg.Seed.AdminPhone,
			Branch:      appModels.BranchAll,
			JoiningDate: time.Now(),
		}
		if err := appRepos.NewEmployeeRepository(tx).Create(ctx, employee); err != nil {
			return err
		}

		admin := &appModels.Admin{
			EmployeeID:         employee.ID,
			Role:               appModels.RoleSuperAdmin,
			PasswordHash:       hash,
			AccessBoysSection:  true,
			AccessGirlsSection: true,
		}
		if err := appRepos.NewAdminRepository(tx).Create(ctx, admin); err != nil {
			return err
		}
		adminID = admin.ID
		return nil
	})
	if err != nil {
		return fmt.Errorf("error creating default super admin: %w", err)
	}

	lgr.Info().Int64("adminId", adminID).Str("phone", cfg.Seed.AdminPhone).Msg("Default super admin created")
	return nil
}
