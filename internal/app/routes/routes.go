package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/controllers"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Admin      *controllers.AdminController
	Group      *controllers.GroupController
	Subject    *controllers.SubjectController
	Assignment *controllers.AssignmentController
	Grade      *controllers.GradeController
	Teacher    *controllers.TeacherController
	Student    *controllers.StudentController
}

// SetupRouter configures all application routes. loginLimiter guards the
// login endpoint and may be nil.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter gin.HandlerFunc,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		login := []gin.HandlerFunc{c.Auth.Login}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{loginLimiter}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", c.Auth.Logout)
		auth.GET("/session", authMiddleware.SessionAuth(), c.Auth.Session)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", c.Admin.Dashboard)

		students := admin.Group("/students")
		{
			students.POST("", c.Admin.CreateStudent)
			students.GET("", c.Admin.ListStudents)
			students.GET("/:id", c.Admin.GetStudent)
			students.PUT("/:id", c.Admin.UpdateStudent)
			students.DELETE("/:id", c.Admin.DeleteStudent)
			students.PUT("/:id/group", c.Admin.AssignStudentGroup)
			students.DELETE("/:id/group", c.Admin.RemoveStudentGroup)
		}

		teachers := admin.Group("/teachers")
		{
			teachers.POST("", c.Admin.CreateTeacher)
			teachers.GET("", c.Admin.ListTeachers)
			teachers.GET("/:id", c.Admin.GetTeacher)
			teachers.PUT("/:id", c.Admin.UpdateTeacher)
			teachers.DELETE("/:id", c.Admin.DeleteTeacher)
		}

		groups := admin.Group("/groups")
		{
			groups.POST("", c.Group.CreateGroup)
			groups.GET("", c.Group.ListGroups)
			// Static segments are registered before /:id
			groups.GET("/program-initials", c.Group.ListProgramInitials)
			groups.GET("/start-years", c.Group.ListStartYears)
			groups.GET("/code/:code", c.Group.GetGroupByCode)
			groups.GET("/:id", c.Group.GetGroup)
			groups.PUT("/:id", c.Group.UpdateGroup)
			groups.DELETE("/:id", c.Group.DeleteGroup)
			groups.GET("/:id/info", c.Group.GetGroupInfo)
			groups.GET("/:id/students", c.Group.ListStudents)
			groups.GET("/:id/subjects", c.Group.ListSubjects)
			groups.POST("/:id/subjects", c.Group.AssignSubject)
			groups.DELETE("/:id/subjects/:subjectId", c.Group.RemoveSubject)
			groups.GET("/:id/grades/stats", c.Group.GetGradeStats)
		}

		subjects := admin.Group("/subjects")
		{
			subjects.POST("", c.Subject.CreateSubject)
			subjects.GET("", c.Subject.ListSubjects)
			subjects.GET("/unassigned-teachers", c.Subject.ListWithoutTeachers)
			subjects.GET("/unassigned-groups", c.Subject.ListWithoutGroups)
			subjects.GET("/code/:code", c.Subject.GetSubjectByCode)
			subjects.GET("/:id", c.Subject.GetSubject)
			subjects.PUT("/:id", c.Subject.UpdateSubject)
			subjects.DELETE("/:id", c.Subject.DeleteSubject)
			subjects.GET("/:id/info", c.Subject.GetSubjectInfo)
			subjects.GET("/:id/groups", c.Subject.ListGroups)
			subjects.GET("/:id/grades/stats", c.Subject.GetGradeStats)
		}

		assignments := admin.Group("/assignments")
		{
			assignments.POST("", c.Assignment.AssignTeacher)
			assignments.GET("", c.Assignment.ListAssignments)
			assignments.PUT("/:id/activate", c.Assignment.ActivateAssignment)
			assignments.PUT("/:id/deactivate", c.Assignment.DeactivateAssignment)
			assignments.DELETE("/:id", c.Assignment.RemoveAssignment)
		}

		grades := admin.Group("/grades")
		{
			grades.POST("", c.Grade.CreateGrade)
			grades.GET("", c.Grade.ListGrades)
			grades.GET("/students/:id/average", c.Grade.StudentAverage)
			grades.GET("/:id", c.Grade.GetGrade)
			grades.PUT("/:id", c.Grade.UpdateGrade)
			grades.DELETE("/:id", c.Grade.DeleteGrade)
		}
	}

	teacher := authenticated.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/dashboard", c.Teacher.Dashboard)
		teacher.GET("/subjects", c.Teacher.Subjects)
		teacher.GET("/groups", c.Teacher.Groups)
		teacher.GET("/students", c.Teacher.Students)

		teacher.GET("/subjects/:id/grades", c.Teacher.SubjectGrades)
		teacher.GET("/subjects/:id/stats", c.Teacher.SubjectStats)
		teacher.GET("/subjects/:id/failing", c.Teacher.FailingGrades)
		teacher.GET("/subjects/:id/top", c.Teacher.TopGrades)
		teacher.GET("/subjects/:id/commented", c.Teacher.CommentedGrades)
		teacher.GET("/subjects/:id/students/:studentId/grades", c.Teacher.StudentGrades)
		teacher.GET("/subjects/:id/groups/:groupId/grades", c.Teacher.GroupGrades)

		teacher.POST("/grades", c.Teacher.EnterGrade)
		teacher.PUT("/grades/:id", c.Teacher.EditGrade)
		teacher.DELETE("/grades/:id", c.Teacher.DeleteGrade)
	}

	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/profile", c.Student.Profile)
		student.GET("/grades", c.Student.Grades)
		student.GET("/subjects", c.Student.Subjects)
		student.GET("/average", c.Student.Average)
		student.GET("/report", c.Student.Report)
	}
}
