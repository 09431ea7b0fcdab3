package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"volunteerHub/internal/credentials"
	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/repository/inmemory"
	"volunteerHub/internal/service"
)

const (
	domainAwareness = "Gaza Awareness"
	domainBoycott   = "Boycott"
	testPassword    = "secret123"
)

type ServiceSuite struct {
	suite.Suite
	ctx context.Context

	storage    *inmemory.Storage
	tokens     *credentials.JWTIssuer
	volunteers *service.VolunteerService
	auth       *service.AuthService
	tasks      *service.TaskService
	feed       *service.FeedService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = inmemory.NewStorage()
	s.tokens = credentials.NewJWTIssuer("test-secret", "volunteerHub", time.Hour)

	catalog := volunteer.NewCatalog(volunteer.DefaultCampaignDomains)
	s.volunteers = service.NewVolunteerService(s.storage, credentials.NewBcryptHasher(bcrypt.MinCost), s.tokens, catalog)
	s.auth = service.NewAuthService(s.storage, s.tokens)
	s.tasks = service.NewTaskService(s.storage, catalog)
	s.feed = service.NewFeedService(s.storage)
}

func registerInput(name, email string, domains ...string) service.RegisterInput {
	return service.RegisterInput{
		Name:     name,
		Email:    email,
		Phone:    "0300-0000000",
		CNIC:     "35202-0000000-0",
		City:     "Lahore",
		Area:     "Gulberg",
		Domains:  domains,
		Password: testPassword,
	}
}

func (s *ServiceSuite) account(name, email string, role volunteer.Role, domains ...string) volunteer.Caller {
	id, err := s.volunteers.CreateAccount(s.ctx, registerInput(name, email, domains...), role)
	s.Require().NoError(err)

	v, err := s.storage.GetVolunteerByID(s.ctx, id)
	s.Require().NoError(err)
	return v.Caller()
}

func (s *ServiceSuite) requireCode(err error, code string) {
	s.T().Helper()
	s.Require().Error(err)
	s.Require().True(service.HasCode(err, code), "expected %s, got %v", code, err)
}

// volunteer registry

func (s *ServiceSuite) TestRegister_Success() {
	id, err := s.volunteers.Register(s.ctx, registerInput("Ayesha", "  Ayesha@Example.com ", domainAwareness))
	s.Require().NoError(err)

	v, err := s.storage.GetVolunteerByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("ayesha@example.com", v.Email)
	s.Equal(volunteer.RoleVolunteer, v.Role)
	s.Equal(volunteer.StatusActive, v.Status)
	s.NotEqual(testPassword, v.PasswordHash)
}

func (s *ServiceSuite) TestRegister_DuplicateEmailIgnoresCase() {
	_, err := s.volunteers.Register(s.ctx, registerInput("Ayesha", "ayesha@example.com", domainAwareness))
	s.Require().NoError(err)

	_, err = s.volunteers.Register(s.ctx, registerInput("Other", "AYESHA@example.com", domainBoycott))
	s.requireCode(err, service.CodeConflict)
}

func (s *ServiceSuite) TestRegister_Validation() {
	tests := []struct {
		name   string
		mutate func(*service.RegisterInput)
	}{
		{"blank name", func(in *service.RegisterInput) { in.Name = "   " }},
		{"missing cnic", func(in *service.RegisterInput) { in.CNIC = "" }},
		{"short password", func(in *service.RegisterInput) { in.Password = "12345" }},
		{"no domains", func(in *service.RegisterInput) { in.Domains = nil }},
		{"unknown domain", func(in *service.RegisterInput) { in.Domains = []string{"Knitting"} }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			in := registerInput("Ayesha", uuid.NewString()+"@example.com", domainAwareness)
			tt.mutate(&in)

			_, err := s.volunteers.Register(s.ctx, in)
			s.requireCode(err, service.CodeValidation)
		})
	}
}

func (s *ServiceSuite) TestLogin() {
	s.account("Ayesha", "ayesha@example.com", volunteer.RoleVolunteer, domainAwareness)

	v, token, err := s.volunteers.Login(s.ctx, "AYESHA@example.com", testPassword)
	s.Require().NoError(err)
	s.Equal("Ayesha", v.Name)
	s.NotEmpty(token)

	_, _, err = s.volunteers.Login(s.ctx, "ayesha@example.com", "wrong-password")
	s.requireCode(err, service.CodeUnauthenticated)
	wrongPassword, _ := service.AsBusinessError(err)

	_, _, err = s.volunteers.Login(s.ctx, "nobody@example.com", testPassword)
	s.requireCode(err, service.CodeUnauthenticated)
	unknownEmail, _ := service.AsBusinessError(err)

	s.Equal(wrongPassword.Message, unknownEmail.Message)

	_, _, err = s.volunteers.Login(s.ctx, "", testPassword)
	s.requireCode(err, service.CodeValidation)
}

// authorization gate

func (s *ServiceSuite) TestAuthorize() {
	member := s.account("Bilal", "bilal@example.com", volunteer.RoleVolunteer, domainAwareness)
	head := s.account("Hina", "hina@example.com", volunteer.RoleDomainHead, domainAwareness)

	memberToken, err := s.tokens.Issue(member.UUID)
	s.Require().NoError(err)
	headToken, err := s.tokens.Issue(head.UUID)
	s.Require().NoError(err)
	ghostToken, err := s.tokens.Issue(uuid.New())
	s.Require().NoError(err)

	caller, err := s.auth.Authorize(s.ctx, memberToken, false)
	s.Require().NoError(err)
	s.Equal(member.UUID, caller.UUID)
	s.Equal([]string{domainAwareness}, caller.Domains)

	_, err = s.auth.Authorize(s.ctx, memberToken, true)
	s.requireCode(err, service.CodeForbidden)

	caller, err = s.auth.Authorize(s.ctx, headToken, true)
	s.Require().NoError(err)
	s.Equal(volunteer.RoleDomainHead, caller.Role)

	_, err = s.auth.Authorize(s.ctx, "", false)
	s.requireCode(err, service.CodeUnauthenticated)

	_, err = s.auth.Authorize(s.ctx, "not-a-token", false)
	s.requireCode(err, service.CodeUnauthenticated)

	_, err = s.auth.Authorize(s.ctx, ghostToken, false)
	s.requireCode(err, service.CodeNotFound)

	_, err = s.auth.Authorize(s.ctx, ghostToken, true)
	s.requireCode(err, service.CodeForbidden)
}

// task assignment

func (s *ServiceSuite) TestCreateTask_AssignAllPicksDomainVolunteers() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	a := s.account("A", "a@example.com", volunteer.RoleVolunteer, domainAwareness)
	b := s.account("B", "b@example.com", volunteer.RoleVolunteer, domainAwareness, domainBoycott)
	s.account("C", "c@example.com", volunteer.RoleVolunteer, domainBoycott)
	s.account("Head", "head@example.com", volunteer.RoleDomainHead, domainAwareness)

	id, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title:       "Poster drive",
		Description: "Print and distribute posters",
		Domain:      domainAwareness,
		AssignTo:    service.AssignAll,
		DueDate:     "2025-01-31",
	})
	s.Require().NoError(err)

	stored, err := s.storage.GetTaskByID(s.ctx, id)
	s.Require().NoError(err)
	s.ElementsMatch([]uuid.UUID{a.UUID, b.UUID}, stored.AssignedTo)
	s.Equal(task.StatusPending, stored.Status)
	s.Equal(admin.UUID, stored.CreatedBy)
	s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), stored.DueDate)
}

func (s *ServiceSuite) TestCreateTask_AssignToDefaultsToAll() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainBoycott)
	a := s.account("A", "a@example.com", volunteer.RoleVolunteer, domainBoycott)

	id, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title:       "List brands",
		Description: "Compile the list",
		Domain:      domainBoycott,
		DueDate:     "2025-02-01T10:00:00Z",
	})
	s.Require().NoError(err)

	stored, err := s.storage.GetTaskByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{a.UUID}, stored.AssignedTo)
}

func (s *ServiceSuite) TestCreateTask_Specific() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	a := s.account("A", "a@example.com", volunteer.RoleVolunteer, domainBoycott)

	id, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title:        "Write thread",
		Description:  "One thread",
		Domain:       domainAwareness,
		AssignTo:     service.AssignSpecific,
		VolunteerIDs: []string{a.UUID.String(), a.UUID.String()},
		DueDate:      "2025-03-01",
	})
	s.Require().NoError(err)

	stored, err := s.storage.GetTaskByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{a.UUID}, stored.AssignedTo)

	unknown := uuid.New()
	_, err = s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title:        "Write thread",
		Description:  "One thread",
		Domain:       domainAwareness,
		AssignTo:     service.AssignSpecific,
		VolunteerIDs: []string{a.UUID.String(), unknown.String()},
		DueDate:      "2025-03-01",
	})
	s.requireCode(err, service.CodeValidation)
	busErr, _ := service.AsBusinessError(err)
	s.Equal([]string{unknown.String()}, busErr.Details["unknown"])
}

func (s *ServiceSuite) TestCreateTask_Validation() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	valid := func() service.CreateTaskInput {
		return service.CreateTaskInput{
			Title:       "Title",
			Description: "Description",
			Domain:      domainAwareness,
			AssignTo:    service.AssignAll,
			DueDate:     "2025-01-31",
		}
	}

	tests := []struct {
		name   string
		mutate func(*service.CreateTaskInput)
	}{
		{"blank title", func(in *service.CreateTaskInput) { in.Title = "  " }},
		{"blank description", func(in *service.CreateTaskInput) { in.Description = "" }},
		{"blank domain", func(in *service.CreateTaskInput) { in.Domain = "" }},
		{"unknown domain", func(in *service.CreateTaskInput) { in.Domain = "Knitting" }},
		{"blank due date", func(in *service.CreateTaskInput) { in.DueDate = "" }},
		{"bad due date", func(in *service.CreateTaskInput) { in.DueDate = "31/01/2025" }},
		{"bad mode", func(in *service.CreateTaskInput) { in.AssignTo = "some" }},
		{"specific without ids", func(in *service.CreateTaskInput) { in.AssignTo = service.AssignSpecific }},
		{"malformed id", func(in *service.CreateTaskInput) {
			in.AssignTo = service.AssignSpecific
			in.VolunteerIDs = []string{"nope"}
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			in := valid()
			tt.mutate(&in)

			_, err := s.tasks.CreateTask(s.ctx, admin, in)
			s.requireCode(err, service.CodeValidation)
		})
	}

	tasks, err := s.tasks.ListTasks(s.ctx)
	s.Require().NoError(err)
	s.Empty(tasks)
}

// status reconciliation

func (s *ServiceSuite) TestMyTasks_VisibilityAndDerivedStatus() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)
	other := s.account("Other", "other@example.com", volunteer.RoleVolunteer, domainBoycott)

	inDomain, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title: "Domain task", Description: "d", Domain: domainAwareness, DueDate: "2025-01-01",
	})
	s.Require().NoError(err)

	explicit, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title: "Explicit task", Description: "d", Domain: domainBoycott,
		AssignTo: service.AssignSpecific, VolunteerIDs: []string{me.UUID.String()}, DueDate: "2025-01-02",
	})
	s.Require().NoError(err)

	_, err = s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title: "Hidden task", Description: "d", Domain: domainBoycott,
		AssignTo: service.AssignSpecific, VolunteerIDs: []string{other.UUID.String()}, DueDate: "2025-01-03",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.tasks.Submit(s.ctx, me, explicit.String(), "done it"))

	views, err := s.tasks.MyTasks(s.ctx, me)
	s.Require().NoError(err)
	s.Require().Len(views, 2)

	s.Equal(explicit, views[0].Task.UUID)
	s.Equal(task.StatusSubmitted, views[0].DerivedStatus)
	s.Require().NotNil(views[0].Submission)
	s.Equal("done it", *views[0].Submission)

	s.Equal(inDomain, views[1].Task.UUID)
	s.Equal(task.StatusPending, views[1].DerivedStatus)
	s.Nil(views[1].Submission)

	stored, err := s.storage.GetTaskByID(s.ctx, explicit)
	s.Require().NoError(err)
	s.Equal(task.StatusPending, stored.Status)
}

func (s *ServiceSuite) TestSubmit_Overwrites() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)

	id, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title: "T", Description: "d", Domain: domainAwareness, DueDate: "2025-01-01",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.tasks.Submit(s.ctx, me, id.String(), "first"))
	s.Require().NoError(s.tasks.Submit(s.ctx, me, id.String(), "second"))

	subs, err := s.storage.ListSubmissionsByVolunteer(s.ctx, me.UUID)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Equal("second", subs[0].Text)
	s.Equal(task.StatusSubmitted, subs[0].Status)
}

func (s *ServiceSuite) TestSubmit_Validation() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)

	s.requireCode(s.tasks.Submit(s.ctx, me, "", "text"), service.CodeValidation)
	s.requireCode(s.tasks.Submit(s.ctx, me, uuid.NewString(), "   "), service.CodeValidation)
	s.requireCode(s.tasks.Submit(s.ctx, me, "not-an-id", "text"), service.CodeValidation)
	s.requireCode(s.tasks.Submit(s.ctx, me, uuid.NewString(), "text"), service.CodeValidation)
}

func (s *ServiceSuite) TestSubmit_ConcurrentLeavesOneRecord() {
	admin := s.account("Admin", "admin@example.com", volunteer.RoleSuperAdmin, domainAwareness)
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)

	id, err := s.tasks.CreateTask(s.ctx, admin, service.CreateTaskInput{
		Title: "T", Description: "d", Domain: domainAwareness, DueDate: "2025-01-01",
	})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(s.T(), s.tasks.Submit(s.ctx, me, id.String(), "report"))
		}()
	}
	wg.Wait()

	subs, err := s.storage.ListSubmissionsByVolunteer(s.ctx, me.UUID)
	s.Require().NoError(err)
	s.Len(subs, 1)
}

// feed

func (s *ServiceSuite) post(author volunteer.Caller) uuid.UUID {
	id, err := s.feed.CreatePost(s.ctx, author, service.CreatePostInput{
		Title:       "Campus stall",
		Description: "Set up a stall",
		Area:        "Gulberg",
		City:        "Lahore",
	})
	s.Require().NoError(err)
	return id
}

func (s *ServiceSuite) TestCreatePost_SnapshotsAuthor() {
	author := s.account("Zara", "zara@example.com", volunteer.RoleDomainHead, domainAwareness)
	id := s.post(author)

	p, err := s.storage.GetPostByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Zara", p.AuthorName)
	s.Equal(volunteer.RoleDomainHead, p.AuthorRole)
	s.Zero(p.Likes)

	_, err = s.feed.CreatePost(s.ctx, author, service.CreatePostInput{Title: " ", Description: "x"})
	s.requireCode(err, service.CodeValidation)
}

func (s *ServiceSuite) TestToggleLike_SequentialNetsZero() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)
	id := s.post(me)

	res, err := s.feed.ToggleLike(s.ctx, me, id.String())
	s.Require().NoError(err)
	s.Equal(feed.LikeResult{Liked: true, Likes: 1}, res)

	res, err = s.feed.ToggleLike(s.ctx, me, id.String())
	s.Require().NoError(err)
	s.Equal(feed.LikeResult{Liked: false, Likes: 0}, res)
}

// slowToggles holds every like toggle open long enough for a second caller to
// arrive while the first is still running.
type slowToggles struct {
	*inmemory.Storage
	delay time.Duration
	calls atomic.Int32
}

func (d *slowToggles) ToggleLike(ctx context.Context, postID, volunteerID uuid.UUID) (feed.LikeResult, error) {
	d.calls.Add(1)
	time.Sleep(d.delay)
	return d.Storage.ToggleLike(ctx, postID, volunteerID)
}

func (s *ServiceSuite) TestToggleLike_ConcurrentSameVolunteerLeavesOneLike() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)
	id := s.post(me)

	storage := &slowToggles{Storage: s.storage, delay: 100 * time.Millisecond}
	svc := service.NewFeedService(storage)

	start := make(chan struct{})
	results := make([]feed.LikeResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := svc.ToggleLike(s.ctx, me, id.String())
			assert.NoError(s.T(), err)
			results[i] = res
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), storage.calls.Load())
	for _, res := range results {
		s.Equal(feed.LikeResult{Liked: true, Likes: 1}, res)
	}

	p, err := s.storage.GetPostByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(1, p.Likes)

	fixed, err := s.storage.RecountLikes(s.ctx)
	s.Require().NoError(err)
	s.Zero(fixed)

	res, err := svc.ToggleLike(s.ctx, me, id.String())
	s.Require().NoError(err)
	s.Equal(feed.LikeResult{Liked: false, Likes: 0}, res)
	s.Equal(int32(2), storage.calls.Load())
}

func (s *ServiceSuite) TestToggleLike_ConcurrentVolunteersAreNotMerged() {
	author := s.account("Author", "author@example.com", volunteer.RoleVolunteer, domainAwareness)
	other := s.account("Other", "other@example.com", volunteer.RoleVolunteer, domainAwareness)
	id := s.post(author)

	storage := &slowToggles{Storage: s.storage, delay: 50 * time.Millisecond}
	svc := service.NewFeedService(storage)

	var wg sync.WaitGroup
	for _, caller := range []volunteer.Caller{author, other} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(s.ctx, caller, id.String())
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	s.Equal(int32(2), storage.calls.Load())
	p, err := s.storage.GetPostByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(2, p.Likes)
}

func (s *ServiceSuite) TestToggleLike_Validation() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)

	_, err := s.feed.ToggleLike(s.ctx, me, "")
	s.requireCode(err, service.CodeValidation)

	_, err = s.feed.ToggleLike(s.ctx, me, uuid.NewString())
	s.requireCode(err, service.CodeValidation)
}

func (s *ServiceSuite) TestAddComment() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)
	id := s.post(me)

	s.Require().NoError(s.feed.AddComment(s.ctx, me, id.String(), "first"))
	s.Require().NoError(s.feed.AddComment(s.ctx, me, id.String(), "second"))

	s.requireCode(s.feed.AddComment(s.ctx, me, id.String(), "   "), service.CodeValidation)
	s.requireCode(s.feed.AddComment(s.ctx, me, uuid.NewString(), "hello"), service.CodeNotFound)

	posts, err := s.feed.Feed(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Require().Len(posts[0].Comments, 2)
	s.Equal("first", posts[0].Comments[0].Text)
	s.Equal("second", posts[0].Comments[1].Text)
	s.Equal("Me", posts[0].Comments[0].AuthorName)
}

func (s *ServiceSuite) TestFeed_NewestFirst() {
	me := s.account("Me", "me@example.com", volunteer.RoleVolunteer, domainAwareness)
	older := s.post(me)
	newer := s.post(me)

	posts, err := s.feed.Feed(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(newer, posts[0].Post.UUID)
	s.Equal(older, posts[1].Post.UUID)
	s.NotNil(posts[0].Comments)
}

type flakyComments struct {
	*inmemory.Storage
	broken uuid.UUID
}

func (f *flakyComments) ListComments(ctx context.Context, postID uuid.UUID) ([]*feed.Comment, error) {
	if postID == f.broken {
		return nil, errors.New("connection reset")
	}
	return f.Storage.ListComments(ctx, postID)
}

func TestFeed_CommentFailureYieldsEmptyList(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	author := volunteer.Caller{UUID: uuid.New(), Name: "Me", Role: volunteer.RoleVolunteer}

	healthy := service.NewFeedService(storage)
	okID, err := healthy.CreatePost(ctx, author, service.CreatePostInput{Title: "ok", Description: "ok"})
	require.NoError(t, err)
	brokenID, err := healthy.CreatePost(ctx, author, service.CreatePostInput{Title: "broken", Description: "broken"})
	require.NoError(t, err)
	require.NoError(t, healthy.AddComment(ctx, author, okID.String(), "hi"))
	require.NoError(t, healthy.AddComment(ctx, author, brokenID.String(), "lost"))

	svc := service.NewFeedService(&flakyComments{Storage: storage, broken: brokenID})
	posts, err := svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, brokenID, posts[0].Post.UUID)
	assert.NotNil(t, posts[0].Comments)
	assert.Empty(t, posts[0].Comments)
	assert.Len(t, posts[1].Comments, 1)
}
