package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/worksphere/server/internal/adapters/filestore"
	"github.com/worksphere/server/internal/adapters/repository"
	"github.com/worksphere/server/internal/application/services"
	"github.com/worksphere/server/internal/infrastructure/config"
	"github.com/worksphere/server/internal/infrastructure/database"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/infrastructure/server"
	"github.com/worksphere/server/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the WorkSphere API server",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations for the postgres storage driver (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")

			if username == "" || password == "" {
				log.Fatal("Username and password are required")
			}

			createUser(username, password, name, email, role)
		},
	}

	createUserCmd.Flags().String("username", "", "Username (required)")
	createUserCmd.Flags().String("password", "", "Password (required)")
	createUserCmd.Flags().String("name", "", "Display name")
	createUserCmd.Flags().String("email", "", "Email address")
	createUserCmd.Flags().String("role", "user", "Role (admin or user)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print WorkSphere version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("WorkSphere Server v1.0.0")
		},
	}
}

// buildRepositories opens the configured storage driver and returns the
// task and user repositories plus a cleanup function.
func buildRepositories(cfg *config.Config, appLogger *logger.Logger) (ports.TaskRepository, ports.UserRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup := func() { db.Close() }
		return repository.NewTaskRepository(db.DB), repository.NewUserRepository(db.DB), cleanup, nil
	default:
		store, err := filestore.New(cfg.Storage.DataDir, appLogger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return store.Tasks(), store.Users(), func() {}, nil
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	taskRepo, userRepo, cleanup, err := buildRepositories(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer cleanup()

	srv, err := server.New(cfg, taskRepo, userRepo, appLogger)
	if err != nil {
		appLogger.Fatalw("failed to create server", "error", err)
	}

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(address); err != nil {
			appLogger.Infow("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("forced shutdown", "error", err)
	}
}

func newMigrator() (*migrate.Migrate, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", cfg.Database.Name, driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, func() { db.Close() }, nil
}

func runMigration(direction string) {
	m, cleanup, err := newMigrator()
	if err != nil {
		log.Fatalf("Migration setup failed: %v", err)
	}
	defer cleanup()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration %s failed: %v", direction, err)
	}

	fmt.Printf("Migration %s completed\n", direction)
}

func showMigrationVersion() {
	m, cleanup, err := newMigrator()
	if err != nil {
		log.Fatalf("Migration setup failed: %v", err)
	}
	defer cleanup()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
}

func createUser(username, password, name, email, role string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	_, userRepo, cleanup, err := buildRepositories(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer cleanup()

	userService := services.NewUserService(userRepo, appLogger)

	if name == "" {
		name = username
	}

	user, err := userService.CreateUser(context.Background(), ports.CreateUserRequest{
		Username: username,
		Password: password,
		Name:     name,
		Email:    email,
		Role:     role,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created: %s (%s)\n", user.Username, user.ID)
}
