package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"propertypulse/pkg/types"
)

// The fakes below keep everything in maps and clone on the way in and
// out, so a service call that fails validation cannot leak a half-mutated
// record back into the "database".

func clone[T any](in *T) *T {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

type fakeCriteriaRepo struct {
	items map[string]*types.InspectionCriteria
	seq   int
}

func newFakeCriteriaRepo() *fakeCriteriaRepo {
	return &fakeCriteriaRepo{items: make(map[string]*types.InspectionCriteria)}
}

func (f *fakeCriteriaRepo) Criteria(_ context.Context, criteriaID string) (*types.InspectionCriteria, error) {
	c, ok := f.items[criteriaID]
	if !ok {
		return nil, types.ErrCriteriaNotFound
	}
	return clone(c), nil
}

func (f *fakeCriteriaRepo) CriteriaByName(_ context.Context, name string) (*types.InspectionCriteria, error) {
	for _, c := range f.items {
		if c.Name == name {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (f *fakeCriteriaRepo) ListCriteria(_ context.Context, _ types.PageParams, activeOnly bool) ([]*types.InspectionCriteria, int, error) {
	var out []*types.InspectionCriteria
	for _, c := range f.items {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, clone(c))
	}
	return out, len(out), nil
}

func (f *fakeCriteriaRepo) Create(_ context.Context, criteria *types.InspectionCriteria) error {
	if criteria.ID == "" {
		f.seq++
		criteria.ID = fmt.Sprintf("crit-%d", f.seq)
	}
	f.items[criteria.ID] = clone(criteria)
	return nil
}

func (f *fakeCriteriaRepo) Update(_ context.Context, criteriaID string, criteria *types.InspectionCriteria) error {
	if _, ok := f.items[criteriaID]; !ok {
		return types.ErrCriteriaNotFound
	}
	f.items[criteriaID] = clone(criteria)
	return nil
}

func (f *fakeCriteriaRepo) Delete(_ context.Context, criteriaID string) error {
	delete(f.items, criteriaID)
	return nil
}

type fakeTemplateRepo struct {
	items         map[string]*types.DashboardTemplate
	seq           int
	countCriteria map[string]int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		items:         make(map[string]*types.DashboardTemplate),
		countCriteria: make(map[string]int),
	}
}

func (f *fakeTemplateRepo) Template(_ context.Context, templateID string) (*types.DashboardTemplate, error) {
	t, ok := f.items[templateID]
	if !ok {
		return nil, types.ErrTemplateNotFound
	}
	return clone(t), nil
}

func (f *fakeTemplateRepo) TemplateByName(_ context.Context, name string) (*types.DashboardTemplate, error) {
	for _, t := range f.items {
		if t.Name == name {
			return clone(t), nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateRepo) ListTemplates(_ context.Context, _ types.PageParams) ([]*types.DashboardTemplate, int, error) {
	var out []*types.DashboardTemplate
	for _, t := range f.items {
		out = append(out, clone(t))
	}
	return out, len(out), nil
}

func (f *fakeTemplateRepo) CountByCriteria(_ context.Context, criteriaID string) (int, error) {
	count := f.countCriteria[criteriaID]
	for _, t := range f.items {
		if t.CriteriaID == criteriaID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, template *types.DashboardTemplate) error {
	if template.ID == "" {
		f.seq++
		template.ID = fmt.Sprintf("tmpl-%d", f.seq)
	}
	f.items[template.ID] = clone(template)
	return nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, templateID string, template *types.DashboardTemplate) error {
	if _, ok := f.items[templateID]; !ok {
		return types.ErrTemplateNotFound
	}
	f.items[templateID] = clone(template)
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, templateID string) error {
	delete(f.items, templateID)
	return nil
}

type fakePropertyRepo struct {
	items         map[string]*types.Property
	seq           int
	countTemplate map[string]int
	events        []*types.AuditEvent
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		items:         make(map[string]*types.Property),
		countTemplate: make(map[string]int),
	}
}

func (f *fakePropertyRepo) Property(_ context.Context, propertyID string) (*types.Property, error) {
	p, ok := f.items[propertyID]
	if !ok {
		return nil, types.ErrPropertyNotFound
	}
	return clone(p), nil
}

func (f *fakePropertyRepo) ListProperties(_ context.Context, _ types.PageParams) ([]*types.Property, int, error) {
	var out []*types.Property
	for _, p := range f.items {
		out = append(out, clone(p))
	}
	return out, len(out), nil
}

func (f *fakePropertyRepo) PropertiesByManager(_ context.Context, managerID string) ([]*types.Property, error) {
	var out []*types.Property
	for _, p := range f.items {
		if p.ManagerID != nil && *p.ManagerID == managerID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) CountByTemplate(_ context.Context, templateID string) (int, error) {
	count := f.countTemplate[templateID]
	for _, p := range f.items {
		if p.DashboardTemplateID != nil && *p.DashboardTemplateID == templateID {
			count++
		}
	}
	return count, nil
}

func (f *fakePropertyRepo) CreateWithAudit(_ context.Context, property *types.Property, event *types.AuditEvent) error {
	if property.ID == "" {
		f.seq++
		property.ID = fmt.Sprintf("prop-%d", f.seq)
	}
	f.items[property.ID] = clone(property)
	f.events = append(f.events, clone(event))
	return nil
}

func (f *fakePropertyRepo) Update(_ context.Context, propertyID string, property *types.Property) error {
	if _, ok := f.items[propertyID]; !ok {
		return types.ErrPropertyNotFound
	}
	f.items[propertyID] = clone(property)
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, propertyID string) error {
	delete(f.items, propertyID)
	return nil
}

type fakeAccessRepo struct {
	grants   map[string]*types.PropertyAccess        // propertyID/userID
	requests map[string]*types.PropertyAccessRequest // by request ID
	seq      int
	events   []*types.AuditEvent
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{
		grants:   make(map[string]*types.PropertyAccess),
		requests: make(map[string]*types.PropertyAccessRequest),
	}
}

func grantKey(propertyID, userID string) string {
	return propertyID + "/" + userID
}

func (f *fakeAccessRepo) Access(_ context.Context, propertyID, userID string) (*types.PropertyAccess, error) {
	a, ok := f.grants[grantKey(propertyID, userID)]
	if !ok {
		return nil, types.ErrAccessNotFound
	}
	return clone(a), nil
}

func (f *fakeAccessRepo) AccessByProperty(_ context.Context, propertyID string) ([]*types.PropertyAccess, error) {
	var out []*types.PropertyAccess
	for _, a := range f.grants {
		if a.PropertyID == propertyID {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (f *fakeAccessRepo) UpsertGrant(_ context.Context, access *types.PropertyAccess) error {
	key := grantKey(access.PropertyID, access.UserID)
	if existing, ok := f.grants[key]; ok {
		access.ID = existing.ID
	} else {
		f.seq++
		access.ID = fmt.Sprintf("grant-%d", f.seq)
	}
	access.GrantedAt = time.Now()
	access.RevokedAt = nil
	access.RevokedBy = nil
	f.grants[key] = clone(access)
	return nil
}

func (f *fakeAccessRepo) Revoke(_ context.Context, propertyID, userID, revokedBy string) error {
	a, ok := f.grants[grantKey(propertyID, userID)]
	if !ok || a.RevokedAt != nil {
		return types.ErrAccessNotFound
	}
	now := time.Now()
	a.RevokedAt = &now
	a.RevokedBy = &revokedBy
	return nil
}

func (f *fakeAccessRepo) Request(_ context.Context, requestID string) (*types.PropertyAccessRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	return clone(r), nil
}

func (f *fakeAccessRepo) RequestsByProperty(_ context.Context, propertyID string) ([]*types.PropertyAccessRequest, error) {
	var out []*types.PropertyAccessRequest
	for _, r := range f.requests {
		if r.PropertyID == propertyID {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (f *fakeAccessRepo) UpsertRequest(_ context.Context, request *types.PropertyAccessRequest) error {
	for _, existing := range f.requests {
		if existing.PropertyID == request.PropertyID && existing.RequesterID == request.RequesterID {
			request.ID = existing.ID
			request.Status = types.AccessRequestPending
			request.DeclineReason = nil
			request.ReviewedAt = nil
			request.ReviewedBy = nil
			f.requests[request.ID] = clone(request)
			return nil
		}
	}
	f.seq++
	request.ID = fmt.Sprintf("req-%d", f.seq)
	request.Status = types.AccessRequestPending
	f.requests[request.ID] = clone(request)
	return nil
}

func (f *fakeAccessRepo) Decline(_ context.Context, requestID, reviewerID, reason string) error {
	r, ok := f.requests[requestID]
	if !ok {
		return types.ErrRequestNotFound
	}
	now := time.Now()
	r.Status = types.AccessRequestDeclined
	r.DeclineReason = &reason
	r.ReviewedAt = &now
	r.ReviewedBy = &reviewerID
	return nil
}

func (f *fakeAccessRepo) ApproveWithGrant(ctx context.Context, request *types.PropertyAccessRequest, reviewerID string, expiresAt *time.Time, event *types.AuditEvent) error {
	r, ok := f.requests[request.ID]
	if !ok {
		return types.ErrRequestNotFound
	}
	now := time.Now()
	r.Status = types.AccessRequestApproved
	r.ReviewedAt = &now
	r.ReviewedBy = &reviewerID

	access := &types.PropertyAccess{
		PropertyID: request.PropertyID,
		UserID:     request.RequesterID,
		GrantedBy:  reviewerID,
		ExpiresAt:  expiresAt,
	}
	if err := f.UpsertGrant(ctx, access); err != nil {
		return err
	}

	f.events = append(f.events, clone(event))
	return nil
}

type fakeUserRepo struct {
	items map[string]*types.User
}

// cloneUser carries PasswordHash across by hand since the JSON round-trip
// drops it (the field is json:"-").
func cloneUser(in *types.User) *types.User {
	if in == nil {
		return nil
	}
	out := clone(in)
	out.PasswordHash = in.PasswordHash
	return out
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	f := &fakeUserRepo{items: make(map[string]*types.User)}
	for _, u := range users {
		f.items[u.ID] = cloneUser(u)
	}
	return f
}

func (f *fakeUserRepo) User(_ context.Context, userID string) (*types.User, error) {
	u, ok := f.items[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) UserByEmail(_ context.Context, email string) (*types.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserRepo) Users(_ context.Context, _ types.PageParams) ([]*types.User, int, error) {
	var out []*types.User
	for _, u := range f.items {
		out = append(out, cloneUser(u))
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *types.User) error {
	f.items[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, userID string, user *types.User) error {
	if _, ok := f.items[userID]; !ok {
		return types.ErrUserNotFound
	}
	f.items[userID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID string) error {
	delete(f.items, userID)
	return nil
}

type fakeSettingsRepo struct {
	branding     *types.BrandingSettings
	roleDefaults *types.RoleNotificationDefaults
	userPrefs    map[string]*types.UserNotificationSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{userPrefs: make(map[string]*types.UserNotificationSettings)}
}

func (f *fakeSettingsRepo) Branding(_ context.Context) (*types.BrandingSettings, error) {
	if f.branding == nil {
		f.branding = types.DefaultBranding()
	}
	return clone(f.branding), nil
}

func (f *fakeSettingsRepo) UpsertBranding(_ context.Context, branding *types.BrandingSettings) error {
	f.branding = clone(branding)
	return nil
}

func (f *fakeSettingsRepo) RoleDefaults(_ context.Context) (*types.RoleNotificationDefaults, error) {
	if f.roleDefaults == nil {
		f.roleDefaults = types.DefaultRoleNotifications()
	}
	return clone(f.roleDefaults), nil
}

func (f *fakeSettingsRepo) UpsertRoleDefaults(_ context.Context, defaults *types.RoleNotificationDefaults) error {
	f.roleDefaults = clone(defaults)
	return nil
}

func (f *fakeSettingsRepo) UserNotifications(ctx context.Context, userID string, role types.Role) (*types.UserNotificationSettings, error) {
	if prefs, ok := f.userPrefs[userID]; ok {
		return clone(prefs), nil
	}
	defaults, err := f.RoleDefaults(ctx)
	if err != nil {
		return nil, err
	}
	return &types.UserNotificationSettings{UserID: userID, Prefs: defaults.Defaults[role]}, nil
}

func (f *fakeSettingsRepo) UpsertUserNotifications(_ context.Context, settings *types.UserNotificationSettings) error {
	f.userPrefs[settings.UserID] = clone(settings)
	return nil
}

type fakeAuditRepo struct {
	events []*types.AuditEvent
}

func (f *fakeAuditRepo) Record(_ context.Context, event *types.AuditEvent) error {
	f.events = append(f.events, clone(event))
	return nil
}

func (f *fakeAuditRepo) EventsByEntity(_ context.Context, entityType, entityID string) ([]*types.AuditEvent, error) {
	var out []*types.AuditEvent
	for _, e := range f.events {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, clone(e))
		}
	}
	return out, nil
}
