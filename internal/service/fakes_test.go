package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"esgcheck/internal/cache"
	"esgcheck/internal/catalog"
	"esgcheck/internal/model"
	"esgcheck/internal/repository"
)

/* ---------------- In-memory fakes for the service dependencies ---------------- */

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: map[string][]byte{}}
}

func (c *fakeSessionCache) Set(ctx context.Context, s *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.sessions[s.ID] = data
	return nil
}

func (c *fakeSessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *fakeSessionCache) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.sessions[id]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := fn(&s); err != nil {
		return nil, err
	}
	out, err := json.Marshal(&s)
	if err != nil {
		return nil, err
	}
	c.sessions[id] = out
	return &s, nil
}

func (c *fakeSessionCache) DeleteIf(ctx context.Context, id string, check func(*model.Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.sessions[id]
	if !ok {
		return cache.ErrSessionNotFound
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := check(&s); err != nil {
		return err
	}
	delete(c.sessions, id)
	return nil
}

type fakeLoader struct {
	cat *catalog.Catalog
	err error
}

func (l *fakeLoader) Load(ctx context.Context) (*catalog.Catalog, error) {
	return l.cat, l.err
}

// fakeSink blocks on entered/release when set, so a test can act while a submit is in flight
type fakeSink struct {
	mu       sync.Mutex
	err      error
	payloads []*model.SubmissionPayload
	entered  chan struct{}
	release  chan struct{}
}

func (s *fakeSink) Submit(ctx context.Context, meta SubmissionMeta, p *model.SubmissionPayload) (*model.SubmissionReceipt, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.payloads = append(s.payloads, p)
	return &model.SubmissionReceipt{ID: "sub-1", Status: "stored"}, nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

type fakeSubmissionRepo struct {
	subs []*model.Submission
	err  error
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	if r.err != nil {
		return r.err
	}
	s.ID = "sub-" + s.SessionID
	r.subs = append(r.subs, s)
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	for _, s := range r.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) GetByCompanyID(ctx context.Context, companyID string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range r.subs {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAccountRepo struct {
	accounts map[string]*model.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*model.Account{}}
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *model.Account) error {
	if _, ok := r.accounts[a.UserID]; ok {
		return repository.ErrDuplicateAccount
	}
	a.ID = "acc-" + a.UserID
	r.accounts[a.UserID] = a
	return nil
}

func (r *fakeAccountRepo) GetByUserID(ctx context.Context, userID string) (*model.Account, error) {
	return r.accounts[userID], nil
}

func (r *fakeAccountRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.accounts)), nil
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	events       []string
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, msgType)
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

type fakeReportCache struct {
	mu      sync.Mutex
	reports map[string]*model.ScoreReport
}

func (c *fakeReportCache) GetReport(ctx context.Context, sessionID string) (*model.ScoreReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports[sessionID], nil
}

func (c *fakeReportCache) SetReport(ctx context.Context, r *model.ScoreReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reports == nil {
		c.reports = map[string]*model.ScoreReport{}
	}
	c.reports[r.SessionID] = r
	return nil
}

var errSinkDown = errors.New("connection refused")

func intPtr(v int) *int { return &v }

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Source: model.CatalogPrimary,
		Questions: []model.Question{
			{ID: 1, Text: "Supplier code of conduct", Type: model.QuestionTypeFourLevel, Levels: []model.LevelOption{
				{LevelNo: 0}, {LevelNo: 1}, {LevelNo: 2}, {LevelNo: 3},
			}, Weight: 1},
			{ID: 2, Text: "Certifications", Type: model.QuestionTypeFiveChoice, Choices: []model.ChoiceOption{
				{ID: 10, Text: "ISO 14001"}, {ID: 11, Text: "SA8000"},
			}, Weight: 1},
		},
	}
}
