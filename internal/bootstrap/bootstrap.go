package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/ais/internal/app/auth"
	appControllers "github.com/yigit/ais/internal/app/controllers"
	appMigrations "github.com/yigit/ais/internal/app/migrations"
	appRepos "github.com/yigit/ais/internal/app/repositories"
	appRoutes "github.com/yigit/ais/internal/app/routes"
	appServices "github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/config"
	"github.com/yigit/ais/internal/db"
	appMiddleware "github.com/yigit/ais/internal/middleware"
	pkgAuth "github.com/yigit/ais/internal/pkg/auth"
	"github.com/yigit/ais/internal/pkg/helpers"
	"github.com/yigit/ais/internal/pkg/logger"
	"github.com/yigit/ais/internal/pkg/validation"
	"github.com/yigit/ais/internal/seed"
)

// Repositories is the set of stores the services are built on. The
// Postgres container satisfies it in production and repotest in tests.
type Repositories struct {
	Users           appRepos.IUserRepository
	Students        appRepos.IStudentRepository
	Teachers        appRepos.ITeacherRepository
	Groups          appRepos.IGroupRepository
	Subjects        appRepos.ISubjectRepository
	TeacherSubjects appRepos.ITeacherSubjectRepository
	GroupSubjects   appRepos.IGroupSubjectRepository
	Grades          appRepos.IGradeRepository
}

// PostgresRepositories adapts the Postgres repository container
func PostgresRepositories(repos *appRepos.Repositories) Repositories {
	return Repositories{
		Users:           repos.UserRepository,
		Students:        repos.StudentRepository,
		Teachers:        repos.TeacherRepository,
		Groups:          repos.GroupRepository,
		Subjects:        repos.SubjectRepository,
		TeacherSubjects: repos.TeacherSubjectRepository,
		GroupSubjects:   repos.GroupSubjectRepository,
		Grades:          repos.GradeRepository,
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	AdminService      appServices.AdminService
	GroupService      appServices.GroupService
	SubjectService    appServices.SubjectService
	AssignmentService appServices.AssignmentService
	GradeService      appServices.GradeService
	TeacherService    appServices.TeacherService
	StudentService    appServices.StudentService
	Controllers       appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres, applies pending migrations and seeds
// the default administrator.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	users := appRepos.NewUserRepository(database)
	if err := seed.CreateDefaultData(ctx, users, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// RunMigrations applies the SQL files of the configured migrations directory
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	applied, err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes services, middleware and controllers
func BuildDependencies(cfg *config.Config, repos Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}
	threshold := cfg.Grades.PassingThreshold

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenTTL:    helpers.ParseDuration(cfg.Session.TTL, 8*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(repos.Teachers, repos.TeacherSubjects)

	deps.AuthService = appServices.NewAuthService(repos.Users, deps.JWTService, logger.Component("auth"))
	deps.AdminService = appServices.NewAdminService(
		repos.Users,
		repos.Students,
		repos.Teachers,
		repos.Groups,
		repos.Subjects,
		repos.Grades,
		logger.Component("admin"),
	)
	deps.GroupService = appServices.NewGroupService(
		repos.Groups,
		repos.Students,
		repos.Subjects,
		repos.Teachers,
		repos.GroupSubjects,
		logger.Component("groups"),
	)
	deps.SubjectService = appServices.NewSubjectService(repos.Subjects)
	deps.AssignmentService = appServices.NewAssignmentService(
		repos.Teachers,
		repos.Subjects,
		repos.TeacherSubjects,
		logger.Component("assignments"),
	)
	deps.GradeService = appServices.NewGradeService(
		repos.Grades,
		repos.Students,
		repos.Subjects,
		repos.Groups,
		threshold,
		logger.Component("grades"),
	)
	deps.TeacherService = appServices.NewTeacherService(
		repos.Grades,
		repos.Students,
		repos.Subjects,
		repos.Teachers,
		repos.Groups,
		deps.AuthzService,
		threshold,
		logger.Component("teacher"),
	)
	deps.StudentService = appServices.NewStudentService(repos.Students, repos.Subjects, repos.Grades)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Session.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService, appControllers.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.SecureCookie,
		}, lgr),
		Admin:      appControllers.NewAdminController(deps.AdminService),
		Group:      appControllers.NewGroupController(deps.GroupService, deps.GradeService),
		Subject:    appControllers.NewSubjectController(deps.SubjectService, deps.GroupService, deps.GradeService),
		Assignment: appControllers.NewAssignmentController(deps.AssignmentService),
		Grade:      appControllers.NewGradeController(deps.GradeService),
		Teacher:    appControllers.NewTeacherController(deps.TeacherService),
		Student:    appControllers.NewStudentController(deps.StudentService),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterGinValidator(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	loginLimiter := appMiddleware.RateLimitByIP(
		cfg.RateLimit.LoginRequests,
		helpers.ParseDuration(cfg.RateLimit.LoginWindow, time.Minute),
	)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, loginLimiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
