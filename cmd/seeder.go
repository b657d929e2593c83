package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/auth"
	authPostgres "github.com/frahmantamala/crm-management/internal/auth/postgres"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/crm-management/internal/permission/postgres"
	"github.com/frahmantamala/crm-management/internal/role"
	rolePostgres "github.com/frahmantamala/crm-management/internal/role/postgres"
	"github.com/frahmantamala/crm-management/internal/user"
	userPostgres "github.com/frahmantamala/crm-management/internal/user/postgres"
	"github.com/frahmantamala/crm-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, permissions and the admin account",
	Long:  `Create the admin and user roles with their permissions, then the admin account from the seed config section.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupLogger()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := openStore(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer store.Close()

		s := newSeeder(store, cfg.Security.BCryptCost, logger.LoggerWrapper())
		return s.run(cmd.Context(), cfg.Seed)
	},
}

var rolePermissions = map[string][]string{
	user.RoleAdmin: {
		"create user",
		"view user",
		"update user",
		"delete user",
		"list users",
		"create role",
		"update role",
		"list roles",
		"view role",
		"delete role",
		"assign roles",
		"change admin status",
		"list user roles",
	},
	user.RoleUser: {
		"add customer",
		"view customer",
		"update customer",
		"delete customer",
		"view profile",
		"update profile",
	},
}

type seeder struct {
	roles       *role.Service
	permissions *permission.Service
	users       *user.Service
	credentials auth.RepositoryAPI
	logger      *slog.Logger
}

func newSeeder(store *datastore.Store, bcryptCost int, lg *slog.Logger) *seeder {
	bus := events.NewEventBus(lg)
	roles := role.NewService(rolePostgres.NewRoleRepository(store.Gorm), lg)
	role.NewEventHandler(roles, lg).RegisterEventHandlers(bus)

	return &seeder{
		roles:       roles,
		permissions: permission.NewService(permissionPostgres.NewPermissionRepository(store.Gorm), lg),
		users:       user.NewService(userPostgres.NewUserRepository(store.Gorm), auth.NewBcryptHasher(bcryptCost), roles, bus, lg),
		credentials: authPostgres.NewRepository(store.SQL),
		logger:      lg,
	}
}

// run is idempotent: existing roles, permissions and the admin account are kept.
func (s *seeder) run(ctx context.Context, cfg internal.SeedConfig) error {
	for _, name := range []string{user.RoleAdmin, user.RoleUser} {
		if err := s.seedRole(ctx, name, rolePermissions[name]); err != nil {
			return err
		}
	}

	if cfg.AdminEmail == "" {
		s.logger.Warn("seed.admin_email is empty, skipping admin account")
		return nil
	}
	return s.seedAdmin(ctx, cfg)
}

func (s *seeder) seedRole(ctx context.Context, name string, permissionNames []string) error {
	roleID, err := s.roles.EnsureRole(ctx, name)
	if err != nil {
		return fmt.Errorf("seed role %s: %w", name, err)
	}

	ids := make([]int64, 0, len(permissionNames))
	for _, p := range permissionNames {
		id, err := s.permissions.EnsurePermission(ctx, p)
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", p, err)
		}
		ids = append(ids, id)
	}

	if err := s.roles.GivePermissionTo(ctx, roleID, ids...); err != nil {
		return fmt.Errorf("grant permissions to %s: %w", name, err)
	}

	s.logger.Info("seeded role", "role", name, "permissions", len(ids))
	return nil
}

func (s *seeder) seedAdmin(ctx context.Context, cfg internal.SeedConfig) error {
	creds, err := s.credentials.GetCredentialsByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("lookup admin account: %w", err)
	}

	var adminID int64
	if creds != nil {
		adminID = creds.ID
		s.logger.Info("admin account already exists", "email", cfg.AdminEmail)
	} else {
		created, err := s.users.Create(ctx, user.CreateUserDTO{
			Name:                 cfg.AdminName,
			Email:                cfg.AdminEmail,
			Password:             cfg.AdminPassword,
			PasswordConfirmation: cfg.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("create admin account: %w", err)
		}
		adminID = created.ID
		s.logger.Info("seeded admin account", "email", cfg.AdminEmail)
	}

	if err := s.users.MakeAdmin(ctx, adminID); err != nil && !errors.Is(err, internal.ErrAlreadyAdmin) {
		return fmt.Errorf("promote admin account: %w", err)
	}
	return nil
}
