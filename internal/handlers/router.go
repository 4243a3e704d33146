package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/config"
	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/session"
	"github.com/matricula-cloud/matricula-service/internal/utils"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// HandlerManager wires all HTTP handlers and their middleware
type HandlerManager struct {
	auth       *AuthHandler
	catalog    *CatalogHandler
	teacher    *TeacherHandler
	student    *StudentHandler
	enrollment *EnrollmentHandler
	payment    *PaymentHandler
	attendance *AttendanceHandler

	authMiddleware *CasdoorAuthMiddleware
	sessionStore   *session.Store
	serviceManager services.ServiceManager
	logger         utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessionStore *session.Store,
	v *validator.Validator,
	logger utils.Logger,
	casdoorCfg config.CasdoorConfig,
	authRepo repositories.AuthRepository,
) *HandlerManager {
	return &HandlerManager{
		auth:           NewAuthHandler(sessionStore, v, logger),
		catalog:        NewCatalogHandler(serviceManager.Catalog(), logger),
		teacher:        NewTeacherHandler(serviceManager.Teacher(), logger),
		student:        NewStudentHandler(serviceManager.Student(), logger),
		enrollment:     NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		payment:        NewPaymentHandler(serviceManager.Payment(), logger),
		attendance:     NewAttendanceHandler(serviceManager.Attendance(), logger),
		authMiddleware: NewCasdoorAuthMiddleware(casdoorCfg, authRepo),
		sessionStore:   sessionStore,
		serviceManager: serviceManager,
		logger:         logger,
	}
}

// SetupRoutes registers all routes on the router
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api/v1")

	// Auth endpoints stay public; the login guard redirects sessions
	// that already hold a token
	auth := api.Group("/auth")
	{
		auth.POST("/login", NavigationGuardMiddleware(hm.sessionStore, session.RouteMeta{Path: session.LoginPath}), hm.auth.Login)
		auth.POST("/logout", hm.auth.Logout)
		auth.GET("/session", hm.auth.Session)
	}

	protected := api.Group("")
	protected.Use(NavigationGuardMiddleware(hm.sessionStore, session.RouteMeta{RequiresAuth: true}))
	protected.Use(hm.authMiddleware.AuthMiddleware())
	{
		hm.setupCatalogRoutes(protected)
		hm.setupTeacherRoutes(protected)
		hm.setupStudentRoutes(protected)
		hm.setupEnrollmentRoutes(protected)
		hm.setupPaymentRoutes(protected)
		hm.setupAttendanceRoutes(protected)
	}
}

func (hm *HandlerManager) setupCatalogRoutes(rg *gin.RouterGroup) {
	adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	instituciones := rg.Group("/instituciones")
	{
		instituciones.GET("", hm.catalog.ListInstitutions)
		instituciones.GET("/:id", hm.catalog.GetInstitution)
		instituciones.POST("", adminOnly, hm.catalog.CreateInstitution)
		instituciones.PUT("/:id", adminOnly, hm.catalog.UpdateInstitution)
		instituciones.DELETE("/:id", adminOnly, hm.catalog.DeleteInstitution)
	}

	periodos := rg.Group("/periodos")
	{
		periodos.GET("", hm.catalog.ListPeriods)
		periodos.POST("", adminOnly, hm.catalog.CreatePeriod)
		periodos.PUT("/:id", adminOnly, hm.catalog.UpdatePeriod)
		periodos.DELETE("/:id", adminOnly, hm.catalog.DeletePeriod)
	}

	especialidades := rg.Group("/especialidades")
	{
		especialidades.GET("", hm.catalog.ListSpecialties)
		especialidades.POST("", adminOnly, hm.catalog.CreateSpecialty)
		especialidades.PUT("/:id", adminOnly, hm.catalog.UpdateSpecialty)
		especialidades.DELETE("/:id", adminOnly, hm.catalog.DeleteSpecialty)
	}

	frecuencias := rg.Group("/frecuencias")
	{
		frecuencias.GET("", hm.catalog.ListFrequencies)
		frecuencias.POST("", adminOnly, hm.catalog.CreateFrequency)
		frecuencias.PUT("/:id", adminOnly, hm.catalog.UpdateFrequency)
		frecuencias.DELETE("/:id", adminOnly, hm.catalog.DeleteFrequency)
	}

	horarios := rg.Group("/horarios")
	{
		horarios.GET("", hm.catalog.ListSchedules)
		horarios.POST("", adminOnly, hm.catalog.CreateSchedule)
		horarios.PUT("/:id", adminOnly, hm.catalog.UpdateSchedule)
		horarios.DELETE("/:id", adminOnly, hm.catalog.DeleteSchedule)
	}

	rg.GET("/tipos-documento", hm.catalog.ListDocumentTypes)
	rg.GET("/medios-deposito", hm.catalog.ListPaymentMethods)
}

func (hm *HandlerManager) setupTeacherRoutes(rg *gin.RouterGroup) {
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleSecretary)

	profesores := rg.Group("/profesores")
	{
		profesores.GET("", hm.teacher.List)
		profesores.GET("/:id", hm.teacher.GetByID)
		profesores.POST("", staff, hm.teacher.Create)
		profesores.PUT("/:id", staff, hm.teacher.Update)
		profesores.DELETE("/:id", staff, hm.teacher.Delete)
	}
}

func (hm *HandlerManager) setupStudentRoutes(rg *gin.RouterGroup) {
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleSecretary)

	alumnos := rg.Group("/alumnos")
	{
		alumnos.GET("", hm.student.List)
		alumnos.GET("/:id", hm.student.GetByID)
		alumnos.POST("", staff, hm.student.Create)
	}
}

func (hm *HandlerManager) setupEnrollmentRoutes(rg *gin.RouterGroup) {
	matriculas := rg.Group("/matriculas")
	{
		matriculas.GET("", hm.enrollment.List)
		matriculas.GET("/stats", hm.enrollment.Stats)
		matriculas.GET("/export", hm.enrollment.Export)
		matriculas.GET("/:id", hm.enrollment.GetByID)
		matriculas.GET("/:id/cronogramas-asistencia", hm.attendance.ListSchedules)
	}
}

func (hm *HandlerManager) setupPaymentRoutes(rg *gin.RouterGroup) {
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleSecretary)

	cronogramas := rg.Group("/cronogramas-pago")
	{
		cronogramas.POST("", staff, hm.payment.CreateSchedule)
		cronogramas.GET("", hm.payment.ListSchedules)
		cronogramas.GET("/:id/depositos", hm.payment.ListDeposits)
	}

	rg.POST("/depositos", staff, hm.payment.RegisterDeposit)
}

func (hm *HandlerManager) setupAttendanceRoutes(rg *gin.RouterGroup) {
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleSecretary, models.RoleTeacher)

	rg.POST("/cronogramas-asistencia", staff, hm.attendance.CreateSchedule)

	asistencias := rg.Group("/asistencias")
	{
		asistencias.GET("", hm.attendance.List)
		asistencias.PATCH("/:id", staff, hm.attendance.Mark)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "matricula-service",
	})
}
