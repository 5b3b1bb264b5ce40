package repotest

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/pkg/apperrors"
)

// groupsTaughtBy returns the ids of groups studying a subject the teacher actively teaches
func (s *Store) groupsTaughtBy(teacherID int64) map[int64]bool {
	subjects := map[int64]bool{}
	for _, ts := range s.teacherSubjects {
		if ts.TeacherID == teacherID && ts.IsActive {
			subjects[ts.SubjectID] = true
		}
	}
	groups := map[int64]bool{}
	for _, gs := range s.groupSubjects {
		if subjects[gs.SubjectID] {
			groups[gs.GroupID] = true
		}
	}
	return groups
}

// teaches reports whether the teacher holds an active assignment for the subject
func (s *Store) teaches(teacherID, subjectID int64) bool {
	for _, ts := range s.teacherSubjects {
		if ts.TeacherID == teacherID && ts.SubjectID == subjectID && ts.IsActive {
			return true
		}
	}
	return false
}

type groupRepo struct{ s *Store }

func (r *groupRepo) codeTaken(code string, excludeID int64) bool {
	for _, g := range r.s.groups {
		if g.GroupCode == code && g.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *groupRepo) Create(_ context.Context, group *models.Group) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(group.GroupCode, 0) {
		return 0, apperrors.ErrGroupCodeExists
	}
	group.ID = r.s.id()
	group.CreatedAt = r.s.Now()
	cp := *group
	r.s.groups[group.ID] = &cp
	return group.ID, nil
}

func (r *groupRepo) GetByID(_ context.Context, id int64) (*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g := r.s.groupCopy(&id); g != nil {
		return g, nil
	}
	return nil, apperrors.ErrGroupNotFound
}

func (r *groupRepo) GetByCode(_ context.Context, code string) (*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.groups {
		if g.GroupCode == code {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperrors.ErrGroupNotFound
}

func (r *groupRepo) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *groupRepo) Update(_ context.Context, group *models.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[group.ID]
	if !ok {
		return apperrors.ErrGroupNotFound
	}
	if r.codeTaken(group.GroupCode, group.ID) {
		return apperrors.ErrGroupCodeExists
	}
	g.GroupCode = group.GroupCode
	g.ProgramInitials = group.ProgramInitials
	g.StartYear = group.StartYear
	g.LanguageCode = group.LanguageCode
	return nil
}

func (r *groupRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	for _, st := range r.s.students {
		if st.GroupID != nil && *st.GroupID == id {
			st.GroupID = nil
		}
	}
	for gsID, gs := range r.s.groupSubjects {
		if gs.GroupID == id {
			delete(r.s.groupSubjects, gsID)
		}
	}
	delete(r.s.groups, id)
	return nil
}

func (r *groupRepo) collect(keep func(*models.Group) bool) []*models.Group {
	out := make([]*models.Group, 0)
	for _, g := range r.s.groups {
		if keep(g) {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupCode < out[j].GroupCode })
	return out
}

func (r *groupRepo) hasStudents(groupID int64) bool {
	for _, st := range r.s.students {
		if st.GroupID != nil && *st.GroupID == groupID {
			return true
		}
	}
	return false
}

func (r *groupRepo) List(_ context.Context, filter models.GroupFilter) ([]*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(g *models.Group) bool {
		if filter.ProgramInitials != "" && g.ProgramInitials != filter.ProgramInitials {
			return false
		}
		if filter.StartYear != nil && g.StartYear != *filter.StartYear {
			return false
		}
		if filter.HasStudents != nil && r.hasStudents(g.ID) != *filter.HasStudents {
			return false
		}
		return true
	}), nil
}

func (r *groupRepo) ListBySubject(_ context.Context, subjectID int64) ([]*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := map[int64]bool{}
	for _, gs := range r.s.groupSubjects {
		if gs.SubjectID == subjectID {
			ids[gs.GroupID] = true
		}
	}
	return r.collect(func(g *models.Group) bool { return ids[g.ID] }), nil
}

func (r *groupRepo) ListByTeacher(_ context.Context, teacherID int64) ([]*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.groupsTaughtBy(teacherID)
	return r.collect(func(g *models.Group) bool { return ids[g.ID] }), nil
}

func (r *groupRepo) DistinctProgramInitials(context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, g := range r.s.groups {
		if !seen[g.ProgramInitials] {
			seen[g.ProgramInitials] = true
			out = append(out, g.ProgramInitials)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *groupRepo) DistinctStartYears(context.Context) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int]bool{}
	out := make([]int, 0)
	for _, g := range r.s.groups {
		if !seen[g.StartYear] {
			seen[g.StartYear] = true
			out = append(out, g.StartYear)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (r *groupRepo) CountStudents(_ context.Context, groupID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, st := range r.s.students {
		if st.GroupID != nil && *st.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *groupRepo) CountSubjects(_ context.Context, groupID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, gs := range r.s.groupSubjects {
		if gs.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *groupRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.groups)), nil
}

type subjectRepo struct{ s *Store }

func (r *subjectRepo) codeTaken(code string, excludeID int64) bool {
	for _, sub := range r.s.subjects {
		if sub.Code == code && sub.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *subjectRepo) Create(_ context.Context, subject *models.Subject) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(subject.Code, 0) {
		return 0, apperrors.ErrSubjectCodeExists
	}
	subject.ID = r.s.id()
	cp := *subject
	r.s.subjects[subject.ID] = &cp
	return subject.ID, nil
}

func (r *subjectRepo) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *subjectRepo) GetByCode(_ context.Context, code string) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subjects {
		if sub.Code == code {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (r *subjectRepo) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *subjectRepo) Update(_ context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subjects[subject.ID]
	if !ok {
		return apperrors.ErrSubjectNotFound
	}
	if r.codeTaken(subject.Code, subject.ID) {
		return apperrors.ErrSubjectCodeExists
	}
	sub.Code = subject.Code
	sub.Credits = subject.Credits
	return nil
}

func (r *subjectRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	for gid, g := range r.s.grades {
		if g.SubjectID == id {
			delete(r.s.grades, gid)
		}
	}
	for tsID, ts := range r.s.teacherSubjects {
		if ts.SubjectID == id {
			delete(r.s.teacherSubjects, tsID)
		}
	}
	for gsID, gs := range r.s.groupSubjects {
		if gs.SubjectID == id {
			delete(r.s.groupSubjects, gsID)
		}
	}
	delete(r.s.subjects, id)
	return nil
}

func (r *subjectRepo) collect(keep func(*models.Subject) bool) []*models.Subject {
	out := make([]*models.Subject, 0)
	for _, sub := range r.s.subjects {
		if keep(sub) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *subjectRepo) List(_ context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := strings.ToUpper(filter.CodeContains)
	return r.collect(func(sub *models.Subject) bool {
		if needle != "" && !strings.Contains(strings.ToUpper(sub.Code), needle) {
			return false
		}
		if filter.MinCredits != nil && (sub.Credits == nil || *sub.Credits < *filter.MinCredits) {
			return false
		}
		if filter.MaxCredits != nil && (sub.Credits == nil || *sub.Credits > *filter.MaxCredits) {
			return false
		}
		if filter.Semester != "" && !r.inSemester(sub.ID, filter.Semester) {
			return false
		}
		return true
	}), nil
}

func (r *subjectRepo) inSemester(subjectID int64, semester string) bool {
	for _, gs := range r.s.groupSubjects {
		if gs.SubjectID == subjectID && gs.AcademicSemester == semester {
			return true
		}
	}
	return false
}

func (r *subjectRepo) ListByGroup(_ context.Context, groupID int64) ([]*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := map[int64]bool{}
	for _, gs := range r.s.groupSubjects {
		if gs.GroupID == groupID {
			ids[gs.SubjectID] = true
		}
	}
	return r.collect(func(sub *models.Subject) bool { return ids[sub.ID] }), nil
}

func (r *subjectRepo) ListByTeacher(_ context.Context, teacherID int64, activeOnly bool) ([]*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := map[int64]bool{}
	for _, ts := range r.s.teacherSubjects {
		if ts.TeacherID == teacherID && (ts.IsActive || !activeOnly) {
			ids[ts.SubjectID] = true
		}
	}
	return r.collect(func(sub *models.Subject) bool { return ids[sub.ID] }), nil
}

func (r *subjectRepo) ListWithoutTeachers(context.Context) ([]*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	taught := map[int64]bool{}
	for _, ts := range r.s.teacherSubjects {
		if ts.IsActive {
			taught[ts.SubjectID] = true
		}
	}
	return r.collect(func(sub *models.Subject) bool { return !taught[sub.ID] }), nil
}

func (r *subjectRepo) ListWithoutGroups(context.Context) ([]*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	used := map[int64]bool{}
	for _, gs := range r.s.groupSubjects {
		used[gs.SubjectID] = true
	}
	return r.collect(func(sub *models.Subject) bool { return !used[sub.ID] }), nil
}

func (r *subjectRepo) CountActiveTeachers(_ context.Context, subjectID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, ts := range r.s.teacherSubjects {
		if ts.SubjectID == subjectID && ts.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *subjectRepo) CountGroups(_ context.Context, subjectID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, gs := range r.s.groupSubjects {
		if gs.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (r *subjectRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.subjects)), nil
}

type teacherSubjectRepo struct{ s *Store }

func (r *teacherSubjectRepo) load(ts *models.TeacherSubject) *models.TeacherSubject {
	cp := *ts
	if u := r.s.users[ts.TeacherID]; u != nil {
		cp.TeacherUsername = u.Username
	}
	if sub := r.s.subjects[ts.SubjectID]; sub != nil {
		cp.SubjectCode = sub.Code
	}
	return &cp
}

func (r *teacherSubjectRepo) Create(_ context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.teachers[teacherID] == nil || r.s.subjects[subjectID] == nil {
		return nil, apperrors.NewResourceNotFoundError("teacher or subject not found")
	}
	for _, ts := range r.s.teacherSubjects {
		if ts.TeacherID == teacherID && ts.SubjectID == subjectID {
			return nil, apperrors.ErrAssignmentExists
		}
	}
	ts := &models.TeacherSubject{
		ID:         r.s.id(),
		TeacherID:  teacherID,
		SubjectID:  subjectID,
		IsActive:   true,
		AssignedAt: r.s.Now(),
	}
	r.s.teacherSubjects[ts.ID] = ts
	return r.load(ts), nil
}

func (r *teacherSubjectRepo) GetByID(_ context.Context, id int64) (*models.TeacherSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ts, ok := r.s.teacherSubjects[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	return r.load(ts), nil
}

func (r *teacherSubjectRepo) GetByPair(_ context.Context, teacherID, subjectID int64) (*models.TeacherSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ts := range r.s.teacherSubjects {
		if ts.TeacherID == teacherID && ts.SubjectID == subjectID {
			return r.load(ts), nil
		}
	}
	return nil, apperrors.ErrAssignmentNotFound
}

func (r *teacherSubjectRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ts, ok := r.s.teacherSubjects[id]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	ts.IsActive = active
	return nil
}

func (r *teacherSubjectRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teacherSubjects[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(r.s.teacherSubjects, id)
	return nil
}

func (r *teacherSubjectRepo) list(keep func(*models.TeacherSubject) bool) []*models.TeacherSubject {
	out := make([]*models.TeacherSubject, 0)
	for _, id := range sortedIDs(r.s.teacherSubjects) {
		if ts := r.s.teacherSubjects[id]; keep(ts) {
			out = append(out, r.load(ts))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubjectCode != out[j].SubjectCode {
			return out[i].SubjectCode < out[j].SubjectCode
		}
		return out[i].TeacherUsername < out[j].TeacherUsername
	})
	return out
}

func (r *teacherSubjectRepo) ListByTeacher(_ context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(ts *models.TeacherSubject) bool { return ts.TeacherID == teacherID }), nil
}

func (r *teacherSubjectRepo) ListBySubject(_ context.Context, subjectID int64) ([]*models.TeacherSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(ts *models.TeacherSubject) bool { return ts.SubjectID == subjectID }), nil
}

func (r *teacherSubjectRepo) IsActive(_ context.Context, teacherID, subjectID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ts := range r.s.teacherSubjects {
		if ts.TeacherID == teacherID && ts.SubjectID == subjectID && ts.IsActive {
			return true, nil
		}
	}
	return false, nil
}

type groupSubjectRepo struct{ s *Store }

func (r *groupSubjectRepo) Create(_ context.Context, gs *models.GroupSubject) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.groups[gs.GroupID] == nil || r.s.subjects[gs.SubjectID] == nil {
		return 0, apperrors.NewResourceNotFoundError("group or subject not found")
	}
	for _, existing := range r.s.groupSubjects {
		if existing.GroupID == gs.GroupID && existing.SubjectID == gs.SubjectID {
			return 0, apperrors.ErrAssignmentExists
		}
	}
	gs.ID = r.s.id()
	cp := *gs
	r.s.groupSubjects[gs.ID] = &cp
	return gs.ID, nil
}

func (r *groupSubjectRepo) DeleteByPair(_ context.Context, groupID, subjectID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, gs := range r.s.groupSubjects {
		if gs.GroupID == groupID && gs.SubjectID == subjectID {
			delete(r.s.groupSubjects, id)
			return nil
		}
	}
	return apperrors.ErrAssignmentNotFound
}

func (r *groupSubjectRepo) ListByGroup(_ context.Context, groupID int64, semester string) ([]*models.GroupSubject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.GroupSubject, 0)
	for _, gs := range r.s.groupSubjects {
		if gs.GroupID != groupID || (semester != "" && gs.AcademicSemester != semester) {
			continue
		}
		cp := *gs
		if g := r.s.groups[gs.GroupID]; g != nil {
			cp.GroupCode = g.GroupCode
		}
		if sub := r.s.subjects[gs.SubjectID]; sub != nil {
			cp.SubjectCode = sub.Code
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectCode < out[j].SubjectCode })
	return out, nil
}
