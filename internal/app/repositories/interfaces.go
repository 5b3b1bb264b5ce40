package repositories

import (
	"context"

	"github.com/yigit/ais/internal/app/models"
)

// IUserRepository covers accounts and role resolution
type IUserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// UsernameExists ignores the user with excludeID (0 excludes nobody)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *models.User) error
	GetRole(ctx context.Context, userID int64) (models.Role, error)
	CreateAdmin(ctx context.Context, user *models.User) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// StudentFilter narrows student listings
type StudentFilter struct {
	GroupID *int64
	// TeacherID selects students whose group studies a subject the teacher actively teaches
	TeacherID *int64
	Offset    uint64
	Limit     int // 0 means no limit
}

// IStudentRepository covers the student role records
type IStudentRepository interface {
	Create(ctx context.Context, user *models.User, groupID *int64) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]*models.Student, int64, error)
	SetGroup(ctx context.Context, userID int64, groupID *int64) error
	Delete(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
}

// ITeacherRepository covers the teacher role records
type ITeacherRepository interface {
	Create(ctx context.Context, user *models.User, department string) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	List(ctx context.Context, department string) ([]*models.Teacher, error)
	UpdateDepartment(ctx context.Context, userID int64, department string) error
	Delete(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
}

// IGroupRepository covers groups
type IGroupRepository interface {
	Create(ctx context.Context, group *models.Group) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByCode(ctx context.Context, code string) (*models.Group, error)
	// CodeExists ignores the group with excludeID (0 excludes nobody)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, group *models.Group) error
	// Delete detaches the group's students and removes the group
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.GroupFilter) ([]*models.Group, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.Group, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Group, error)
	DistinctProgramInitials(ctx context.Context) ([]string, error)
	DistinctStartYears(ctx context.Context) ([]int, error)
	CountStudents(ctx context.Context, groupID int64) (int64, error)
	CountSubjects(ctx context.Context, groupID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ISubjectRepository covers subjects
type ISubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetByCode(ctx context.Context, code string) (*models.Subject, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error)
	ListByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error)
	ListByTeacher(ctx context.Context, teacherID int64, activeOnly bool) ([]*models.Subject, error)
	ListWithoutTeachers(ctx context.Context) ([]*models.Subject, error)
	ListWithoutGroups(ctx context.Context) ([]*models.Subject, error)
	CountActiveTeachers(ctx context.Context, subjectID int64) (int64, error)
	CountGroups(ctx context.Context, subjectID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ITeacherSubjectRepository covers teaching assignments
type ITeacherSubjectRepository interface {
	Create(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error)
	GetByID(ctx context.Context, id int64) (*models.TeacherSubject, error)
	GetByPair(ctx context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.TeacherSubject, error)
	IsActive(ctx context.Context, teacherID, subjectID int64) (bool, error)
}

// IGroupSubjectRepository covers curriculum assignments
type IGroupSubjectRepository interface {
	Create(ctx context.Context, gs *models.GroupSubject) (int64, error)
	DeleteByPair(ctx context.Context, groupID, subjectID int64) error
	// ListByGroup keeps only entries of the given semester unless it is empty
	ListByGroup(ctx context.Context, groupID int64, semester string) ([]*models.GroupSubject, error)
}

// IGradeRepository covers grades and their aggregates
type IGradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error)
	Aggregate(ctx context.Context, filter models.GradeFilter) (models.GradeAggregate, error)
}
