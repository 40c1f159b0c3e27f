package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/handler"
	"github.com/stemsi/ejurnal-backend/internal/middleware"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Major     *handler.MajorHandler
	Class     *handler.ClassHandler
	Subject   *handler.SubjectHandler
	Student   *handler.StudentHandler
	Staff     *handler.StaffHandler
	Schedule  *handler.ScheduleHandler
	Teacher   *handler.TeacherHandler
	Principal *handler.PrincipalHandler
	Feed      *handler.FeedHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.Authenticator,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request log line carries it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	brotliConfig := middleware.DefaultBrotliConfig
	brotliConfig.Skipper = middleware.SkipPathSuffixes("/export")
	router.Use(middleware.BrotliWithConfig(brotliConfig))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(auth)
	api := router.Group("/api/v1")

	// ─── 0. Public ─────────────────────────────────────────────────────
	api.GET("/mapel", handlers.Subject.List)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	authAPI := api.Group("/auth")
	{
		authAPI.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		authAPI.POST("/login-admin", authLimiter.Middleware(), handlers.Auth.LoginAdmin)

		authAPI.POST("/logout", requireAuth, handlers.Auth.Logout)
		authAPI.GET("/me", requireAuth, handlers.Auth.Me)
	}

	// ─── 2. Teacher Group ──────────────────────────────────────────────
	teacherAPI := api.Group("/guru")
	teacherAPI.Use(requireAuth, middleware.RequireRole(model.RoleTeacher, model.RolePrincipal))
	{
		teacherAPI.GET("/jadwal-saya", handlers.Teacher.MySchedule)
		teacherAPI.GET("/kelas/:key", handlers.Teacher.ClassesByNIP)
		teacherAPI.GET("/kelas/:key/siswa", handlers.Teacher.StudentsInClass)
		teacherAPI.POST("/jurnal", middleware.RequireRole(model.RoleTeacher), handlers.Teacher.SubmitJournal)
	}

	// ─── 3. Principal Group ────────────────────────────────────────────
	principalAPI := api.Group("/kepsek")
	principalAPI.Use(requireAuth, middleware.RequireRole(model.RolePrincipal))
	{
		principalAPI.GET("/absensi", handlers.Principal.Attendance)
		principalAPI.GET("/jurnal", handlers.Principal.JournalSummaries)
		principalAPI.GET("/jurnal/:id", handlers.Principal.JournalDetail)
		principalAPI.GET("/jurnals", handlers.Principal.Journals)
		principalAPI.GET("/statistik", handlers.Principal.Stats)
		principalAPI.GET("/rekap-mingguan", handlers.Principal.WeeklyRecap)
		principalAPI.GET("/rekap-mingguan/export", handlers.Principal.ExportWeeklyRecap)
	}

	// ─── 4. Admin Group ────────────────────────────────────────────────
	adminAPI := api.Group("/admin")
	adminAPI.Use(requireAuth, middleware.RequireRole(model.RoleAdmin))
	{
		adminAPI.POST("/register", handlers.Staff.Register)
		adminAPI.GET("/users", handlers.Staff.List)

		subjects := adminAPI.Group("/mapel")
		{
			subjects.GET("", handlers.Subject.List)
			subjects.GET("/:id", handlers.Subject.Get)
			subjects.POST("", handlers.Subject.Create)
			subjects.PUT("/:id", handlers.Subject.Update)
			subjects.DELETE("/:id", handlers.Subject.Delete)
		}

		majors := adminAPI.Group("/jurusan")
		{
			majors.GET("", handlers.Major.List)
			majors.GET("/:id", handlers.Major.Get)
			majors.POST("", handlers.Major.Create)
			majors.PUT("/:id", handlers.Major.Update)
			majors.DELETE("/:id", handlers.Major.Delete)
		}

		classes := adminAPI.Group("/kelas")
		{
			classes.GET("", handlers.Class.ListClasses)
			classes.GET("/:id", handlers.Class.GetClass)
			classes.POST("", handlers.Class.CreateClass)
			classes.PUT("/:id", handlers.Class.UpdateClass)
			classes.DELETE("/:id", handlers.Class.DeleteClass)
		}

		students := adminAPI.Group("/siswa")
		{
			students.GET("", handlers.Student.ListStudents)
			students.GET("/:id", handlers.Student.GetStudent)
			students.POST("", handlers.Student.CreateStudent)
			students.PUT("/:id", handlers.Student.UpdateStudent)
			students.DELETE("/:id", handlers.Student.DeleteStudent)
		}

		schedules := adminAPI.Group("/jadwal")
		{
			schedules.GET("", handlers.Schedule.List)
			schedules.GET("/guru/:id", handlers.Schedule.ListByTeacher)
			schedules.POST("", handlers.Schedule.Create)
			schedules.DELETE("/:id", handlers.Schedule.Delete)
		}
	}

	// ─── 5. WebSocket Group (token query param) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(auth), middleware.RequireRole(model.RolePrincipal))
	{
		ws.GET("/kepsek/feed", handlers.Feed.JournalFeed)
	}

	return router
}
