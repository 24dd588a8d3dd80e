package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	"github.com/noah-isme/internship-api/pkg/storage"
)

func callerFor(id string, role models.UserRole) *models.Caller {
	return &models.Caller{UserID: id, Role: role, Email: id + "@example.com", FullName: id}
}

type teamReaderStub struct {
	mu      sync.Mutex
	teams   map[string]*models.Team
	members map[string][]models.TeamMember
	docs    map[string][]models.TeamDocument
}

func newTeamReaderStub() *teamReaderStub {
	return &teamReaderStub{
		teams:   map[string]*models.Team{},
		members: map[string][]models.TeamMember{},
		docs:    map[string][]models.TeamDocument{},
	}
}

// addTeam registers a team led by leader with the given members.
func (s *teamReaderStub) addTeam(id, leader string, supervisor *string, members ...string) *models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	team := &models.Team{ID: id, ProgramID: "program-1", Name: "Team " + id, LeaderID: leader, SupervisorID: supervisor, FinalReportStatus: models.FinalReportDraft}
	s.teams[id] = team
	rows := []models.TeamMember{{TeamID: id, UserID: leader, FullName: leader}}
	for _, m := range members {
		rows = append(rows, models.TeamMember{TeamID: id, UserID: m, FullName: "Member " + m})
	}
	s.members[id] = rows
	return team
}

func (s *teamReaderStub) GetByID(ctx context.Context, id string) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *team
	return &clone, nil
}

func (s *teamReaderStub) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TeamMember(nil), s.members[teamID]...), nil
}

func (s *teamReaderStub) AddDocument(ctx context.Context, doc *models.TeamDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.ID = fmt.Sprintf("doc-%d", len(s.docs[doc.TeamID])+1)
	s.docs[doc.TeamID] = append(s.docs[doc.TeamID], *doc)
	return nil
}

func (s *teamReaderStub) ListDocuments(ctx context.Context, teamID string) ([]models.TeamDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TeamDocument(nil), s.docs[teamID]...), nil
}

func (s *teamReaderStub) TransitionFinalReport(ctx context.Context, tr repository.FinalReportTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[tr.TeamID]
	if !ok {
		return sql.ErrNoRows
	}
	for _, from := range tr.From {
		if team.FinalReportStatus == from {
			team.FinalReportStatus = tr.To
			if tr.ReviewedBy != nil {
				team.FinalReportReviewedBy = tr.ReviewedBy
			}
			if tr.Notes != nil {
				team.FinalReportNotes = tr.Notes
			}
			return nil
		}
	}
	return sql.ErrNoRows
}

type taskStoreStub struct {
	mu          sync.Mutex
	seq         int
	tasks       map[string]*models.Task
	artifacts   map[string][]models.TaskArtifact
	updates     map[string][]models.TaskUpdate
	completeErr error
	updateErr   error
}

func newTaskStoreStub() *taskStoreStub {
	return &taskStoreStub{
		tasks:     map[string]*models.Task{},
		artifacts: map[string][]models.TaskArtifact{},
		updates:   map[string][]models.TaskUpdate{},
	}
}

func (s *taskStoreStub) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", s.seq)
	}
	task.Status = models.TaskStatusTodo
	task.Completed = false
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *taskStoreStub) GetByID(ctx context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (s *taskStoreStub) GetByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (s *taskStoreStub) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, task := range s.tasks {
		if task.TeamID != filter.TeamID {
			continue
		}
		if filter.WorkProgramID != "" && (task.WorkProgramID == nil || *task.WorkProgramID != filter.WorkProgramID) {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (s *taskStoreStub) UpdateDetails(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	existing, ok := s.tasks[task.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.StartDate = task.StartDate
	existing.DueDate = task.DueDate
	existing.AssignedMemberIDs = task.AssignedMemberIDs
	return nil
}

func (s *taskStoreStub) Complete(ctx context.Context, c models.TaskCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeErr != nil {
		return s.completeErr
	}
	task, ok := s.tasks[c.TaskID]
	if !ok || task.Completed {
		return sql.ErrNoRows
	}
	task.Completed = true
	task.Status = models.TaskStatusCompleted
	at := c.CompletedAt
	by := c.CompletedByID
	task.CompletedAt = &at
	task.CompletedByID = &by
	for i, a := range c.Artifacts {
		a.ID = fmt.Sprintf("%s-artifact-%d", c.TaskID, i)
		a.TaskID = c.TaskID
		s.artifacts[c.TaskID] = append(s.artifacts[c.TaskID], a)
	}
	return nil
}

func (s *taskStoreStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.tasks, id)
	delete(s.artifacts, id)
	return nil
}

func (s *taskStoreStub) ListArtifacts(ctx context.Context, taskID string) ([]models.TaskArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TaskArtifact(nil), s.artifacts[taskID]...), nil
}

func (s *taskStoreStub) AddUpdate(ctx context.Context, u *models.TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = fmt.Sprintf("update-%d", len(s.updates[u.TaskID])+1)
	s.updates[u.TaskID] = append(s.updates[u.TaskID], *u)
	return nil
}

func (s *taskStoreStub) ListUpdates(ctx context.Context, taskID string) ([]models.TaskUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TaskUpdate(nil), s.updates[taskID]...), nil
}

// workProgramStoreStub recomputes from the task stub the way the repository
// does it in SQL. It records the maximum number of overlapping recomputes.
type workProgramStoreStub struct {
	mu          sync.Mutex
	tasks       *taskStoreStub
	programs    map[string]*models.WorkProgram
	progress    map[string]map[string]int
	failures    []error
	recomputes  int
	inflight    int
	maxInflight int
}

func newWorkProgramStoreStub(tasks *taskStoreStub) *workProgramStoreStub {
	return &workProgramStoreStub{
		tasks:    tasks,
		programs: map[string]*models.WorkProgram{},
		progress: map[string]map[string]int{},
	}
}

func (s *workProgramStoreStub) Create(ctx context.Context, wp *models.WorkProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wp.ID == "" {
		wp.ID = fmt.Sprintf("wp-%d", len(s.programs)+1)
	}
	clone := *wp
	s.programs[wp.ID] = &clone
	return nil
}

func (s *workProgramStoreStub) GetByID(ctx context.Context, id string) (*models.WorkProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wp, ok := s.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *wp
	return &clone, nil
}

func (s *workProgramStoreStub) ListByTeam(ctx context.Context, teamID string) ([]models.WorkProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WorkProgram
	for _, wp := range s.programs {
		if wp.TeamID == teamID {
			out = append(out, *wp)
		}
	}
	return out, nil
}

func (s *workProgramStoreStub) ListProgress(ctx context.Context, id string) ([]models.WorkProgramProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WorkProgramProgress
	for member, pct := range s.progress[id] {
		out = append(out, models.WorkProgramProgress{WorkProgramID: id, MemberID: member, Percentage: pct})
	}
	return out, nil
}

func (s *workProgramStoreStub) UpsertMemberProgress(ctx context.Context, id, memberID string, pct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress[id] == nil {
		s.progress[id] = map[string]int{}
	}
	s.progress[id][memberID] = pct
	return nil
}

func (s *workProgramStoreStub) memberProgress(id, memberID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pct, ok := s.progress[id][memberID]
	return pct, ok
}

func (s *workProgramStoreStub) Recompute(ctx context.Context, id string) (*models.WorkProgram, error) {
	s.mu.Lock()
	s.recomputes++
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()
		return nil, err
	}
	s.inflight++
	if s.inflight > s.maxInflight {
		s.maxInflight = s.inflight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	tasks, _ := s.tasks.List(ctx, models.TaskFilter{TeamID: s.teamOf(id), WorkProgramID: id})
	total, completed := len(tasks), 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	wp, ok := s.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if total > 0 {
		wp.Progress = repository.RoundPercentage(completed, total)
		if s.progress[id] == nil {
			s.progress[id] = map[string]int{}
		}
		for _, member := range wp.MemberIDs {
			s.progress[id][member] = wp.Progress
		}
	}
	clone := *wp
	return &clone, nil
}

func (s *workProgramStoreStub) teamOf(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wp, ok := s.programs[id]; ok {
		return wp.TeamID
	}
	return ""
}

type activityStub struct {
	mu      sync.Mutex
	created []models.Activity
	err     error
}

func (s *activityStub) Create(ctx context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *a)
	return nil
}

func (s *activityStub) ListByTeam(ctx context.Context, teamID string, limit int) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Activity
	for _, a := range s.created {
		if a.TeamID != nil && *a.TeamID == teamID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fileStoreStub struct {
	mu      sync.Mutex
	seq     int
	files   map[string]string
	deleted []string
	putErr  error
}

func newFileStoreStub() *fileStoreStub {
	return &fileStoreStub{files: map[string]string{}}
}

func (s *fileStoreStub) Put(prefix, name string, r io.Reader) (*storage.StoredFile, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("%s/%d-%s", prefix, s.seq, name)
	s.files[key] = string(body)
	return &storage.StoredFile{Key: key, Name: name, ContentType: "text/plain", Size: int64(len(body))}, nil
}

func (s *fileStoreStub) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fileStoreStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type signerStub struct{}

func (signerStub) URL(ownerID, key string) (string, error) {
	return "https://files.test/" + ownerID + "/" + key, nil
}

type recordedEvent struct {
	Topic   string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Payload: payload})
	return p.err
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type recordingAnalytics struct {
	mu     sync.Mutex
	events []string
}

func (a *recordingAnalytics) Track(actorID, event string, props map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAnalytics) tracked() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.events...)
}

type panickingAnalytics struct{}

func (panickingAnalytics) Track(string, string, map[string]interface{}) {
	panic("analytics backend exploded")
}

var errStoreDown = errors.New("connection refused")

type userStoreStub struct {
	mu        sync.Mutex
	users     map[string]*models.User
	createErr error
	promoted  []string
}

func newUserStoreStub(users ...models.User) *userStoreStub {
	s := &userStoreStub{users: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
	}
	return s
}

func (s *userStoreStub) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *userStoreStub) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ExternalID == externalID })
}

func (s *userStoreStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *userStoreStub) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *userStoreStub) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(s.users)+1)
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *userStoreStub) LinkExternalID(ctx context.Context, id, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.ExternalID = externalID
	return nil
}

func (s *userStoreStub) PromoteFromPending(ctx context.Context, id string, role models.UserRole, studentID *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != models.RolePending {
		return false, nil
	}
	u.Role = role
	if u.StudentID == nil {
		u.StudentID = studentID
	}
	s.promoted = append(s.promoted, id)
	return true, nil
}

func (s *userStoreStub) get(id string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

type programStoreStub struct {
	mu       sync.Mutex
	programs map[string]*models.Program
}

func newProgramStoreStub(programs ...models.Program) *programStoreStub {
	s := &programStoreStub{programs: map[string]*models.Program{}}
	for i := range programs {
		p := programs[i]
		s.programs[p.ID] = &p
	}
	return s
}

func (s *programStoreStub) Create(ctx context.Context, p *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("program-%d", len(s.programs)+1)
	}
	clone := *p
	s.programs[p.ID] = &clone
	return nil
}

func (s *programStoreStub) GetByID(ctx context.Context, id string) (*models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (s *programStoreStub) List(ctx context.Context, includeArchived bool) ([]models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Program
	for _, p := range s.programs {
		if includeArchived || !p.Archived {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *programStoreStub) Archive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Archived = true
	return nil
}
