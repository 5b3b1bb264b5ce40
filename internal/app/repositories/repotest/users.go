package repotest

import (
	"context"
	"sort"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u := r.s.userCopy(id); u != nil {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) UsernameExists(_ context.Context, username string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.usernameTaken(username, excludeID), nil
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if r.s.usernameTaken(user.Username, user.ID) {
		return apperrors.ErrUsernameExists
	}
	u.Username = user.Username
	u.Password = user.Password
	u.UpdatedAt = r.s.Now()
	return nil
}

func (r *userRepo) GetRole(_ context.Context, userID int64) (models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	switch {
	case r.s.admins[userID]:
		return models.RoleAdmin, nil
	case r.s.teachers[userID] != nil:
		return models.RoleTeacher, nil
	case r.s.students[userID] != nil:
		return models.RoleStudent, nil
	}
	return "", apperrors.ErrNoRole
}

func (r *userRepo) CreateAdmin(_ context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usernameTaken(user.Username, 0) {
		return 0, apperrors.ErrUsernameExists
	}
	r.s.insertUser(user)
	r.s.admins[user.ID] = true
	return user.ID, nil
}

func (r *userRepo) CountAdmins(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.admins)), nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// AddUser stores a bare user without any role record
func (s *Store) AddUser(user *models.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertUser(user)
	return user.ID
}

// MakeAdmin adds an administrator record for an existing user
func (s *Store) MakeAdmin(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[userID] = true
}

type studentRepo struct{ s *Store }

func (r *studentRepo) Create(_ context.Context, user *models.User, groupID *int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usernameTaken(user.Username, 0) {
		return 0, apperrors.ErrUsernameExists
	}
	if groupID != nil && r.s.groups[*groupID] == nil {
		return 0, apperrors.ErrGroupNotFound
	}
	r.s.insertUser(user)
	r.s.students[user.ID] = &models.Student{UserID: user.ID, GroupID: copyID(groupID)}
	return user.ID, nil
}

func (r *studentRepo) load(st *models.Student) *models.Student {
	cp := *st
	cp.GroupID = copyID(st.GroupID)
	cp.User = r.s.userCopy(st.UserID)
	cp.Group = r.s.groupCopy(st.GroupID)
	return &cp
}

func (r *studentRepo) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.students[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return r.load(st), nil
}

func (r *studentRepo) List(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var taughtGroups map[int64]bool
	if filter.TeacherID != nil {
		taughtGroups = r.s.groupsTaughtBy(*filter.TeacherID)
	}

	out := make([]*models.Student, 0)
	for _, st := range r.s.students {
		if filter.GroupID != nil && (st.GroupID == nil || *st.GroupID != *filter.GroupID) {
			continue
		}
		if taughtGroups != nil && (st.GroupID == nil || !taughtGroups[*st.GroupID]) {
			continue
		}
		out = append(out, r.load(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.Username < out[j].User.Username })

	total := int64(len(out))
	if filter.Limit > 0 {
		start := len(out)
		if filter.Offset < uint64(len(out)) {
			start = int(filter.Offset)
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *studentRepo) SetGroup(_ context.Context, userID int64, groupID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.students[userID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if groupID != nil && r.s.groups[*groupID] == nil {
		return apperrors.ErrGroupNotFound
	}
	st.GroupID = copyID(groupID)
	return nil
}

func (r *studentRepo) Delete(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[userID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	for id, g := range r.s.grades {
		if g.StudentID == userID {
			delete(r.s.grades, id)
		}
	}
	delete(r.s.students, userID)
	delete(r.s.users, userID)
	return nil
}

func (r *studentRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.students)), nil
}

type teacherRepo struct{ s *Store }

func (r *teacherRepo) Create(_ context.Context, user *models.User, department string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usernameTaken(user.Username, 0) {
		return 0, apperrors.ErrUsernameExists
	}
	r.s.insertUser(user)
	r.s.teachers[user.ID] = &models.Teacher{UserID: user.ID, Department: department}
	return user.ID, nil
}

func (r *teacherRepo) load(t *models.Teacher) *models.Teacher {
	cp := *t
	cp.User = r.s.userCopy(t.UserID)
	return &cp
}

func (r *teacherRepo) GetByUserID(_ context.Context, userID int64) (*models.Teacher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teachers[userID]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	return r.load(t), nil
}

func (r *teacherRepo) List(_ context.Context, department string) ([]*models.Teacher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Teacher, 0)
	for _, t := range r.s.teachers {
		if department != "" && t.Department != department {
			continue
		}
		out = append(out, r.load(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.Username < out[j].User.Username })
	return out, nil
}

func (r *teacherRepo) UpdateDepartment(_ context.Context, userID int64, department string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teachers[userID]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	t.Department = department
	return nil
}

func (r *teacherRepo) Delete(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teachers[userID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	for id, ts := range r.s.teacherSubjects {
		if ts.TeacherID == userID {
			delete(r.s.teacherSubjects, id)
		}
	}
	delete(r.s.teachers, userID)
	delete(r.s.admins, userID)
	delete(r.s.users, userID)
	return nil
}

func (r *teacherRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.teachers)), nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
