// Package repotest provides in-memory implementations of the repository
// interfaces for service and handler tests.
package repotest

import (
	"sort"
	"sync"
	"time"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/repositories"
)

// Store is the shared in-memory state behind every fake repository
type Store struct {
	mu     sync.Mutex
	nextID int64

	users           map[int64]*models.User
	admins          map[int64]bool
	teachers        map[int64]*models.Teacher
	students        map[int64]*models.Student
	groups          map[int64]*models.Group
	subjects        map[int64]*models.Subject
	teacherSubjects map[int64]*models.TeacherSubject
	groupSubjects   map[int64]*models.GroupSubject
	grades          map[int64]*models.Grade

	// Now stamps created and updated rows
	Now func() time.Time
}

// New returns an empty store
func New() *Store {
	return &Store{
		users:           map[int64]*models.User{},
		admins:          map[int64]bool{},
		teachers:        map[int64]*models.Teacher{},
		students:        map[int64]*models.Student{},
		groups:          map[int64]*models.Group{},
		subjects:        map[int64]*models.Subject{},
		teacherSubjects: map[int64]*models.TeacherSubject{},
		groupSubjects:   map[int64]*models.GroupSubject{},
		grades:          map[int64]*models.Grade{},
		Now:             time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() repositories.IUserRepository { return &userRepo{s} }

func (s *Store) Students() repositories.IStudentRepository { return &studentRepo{s} }

func (s *Store) Teachers() repositories.ITeacherRepository { return &teacherRepo{s} }

func (s *Store) Groups() repositories.IGroupRepository { return &groupRepo{s} }

func (s *Store) Subjects() repositories.ISubjectRepository { return &subjectRepo{s} }

func (s *Store) TeacherSubjects() repositories.ITeacherSubjectRepository {
	return &teacherSubjectRepo{s}
}

func (s *Store) GroupSubjects() repositories.IGroupSubjectRepository { return &groupSubjectRepo{s} }

func (s *Store) Grades() repositories.IGradeRepository { return &gradeRepo{s} }

// GradeCount returns the number of stored grades
func (s *Store) GradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grades)
}

// UserExists reports whether a users row with id is present
func (s *Store) UserExists(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *Store) insertUser(user *models.User) {
	now := s.Now()
	user.ID = s.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
}

func (s *Store) usernameTaken(username string, excludeID int64) bool {
	for _, u := range s.users {
		if u.Username == username && u.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *Store) userCopy(id int64) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *Store) groupCopy(id *int64) *models.Group {
	if id == nil {
		return nil
	}
	g, ok := s.groups[*id]
	if !ok {
		return nil
	}
	cp := *g
	return &cp
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
