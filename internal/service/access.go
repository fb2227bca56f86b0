package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"propertypulse/pkg/types"
)

type AccessService struct {
	repo       AccessRepo
	properties PropertyRepo
	users      UserRepo
	audit      AuditRepo
}

func NewAccessService(repo AccessRepo, properties PropertyRepo, users UserRepo, audit AuditRepo) *AccessService {
	return &AccessService{repo: repo, properties: properties, users: users, audit: audit}
}

// RequestAccess files (or re-files after a decline) a PENDING request for
// the actor on the property.
func (s *AccessService) RequestAccess(ctx context.Context, actor *types.User, propertyID string, message *string) (*types.PropertyAccessRequest, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if actor.Role == types.RoleAdmin || (property.ManagerID != nil && *property.ManagerID == actor.ID) {
		return nil, types.NewBadRequest("you already have access to this property")
	}

	request := &types.PropertyAccessRequest{
		PropertyID:  propertyID,
		RequesterID: actor.ID,
		Message:     message,
	}

	if err := s.repo.UpsertRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("request access: %w", err)
	}

	s.record(ctx, actor, types.AuditAccessRequested, propertyID, map[string]any{"requesterId": actor.ID})

	return request, nil
}

func (s *AccessService) ListRequests(ctx context.Context, actor *types.User, propertyID string) ([]*types.PropertyAccessRequest, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	return s.repo.RequestsByProperty(ctx, propertyID)
}

type ReviewRequestInput struct {
	Approve       bool       `json:"approve"`
	DeclineReason string     `json:"declineReason"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// ReviewRequest approves or declines a pending request. Only the
// property's manager or an admin may review; declines require a reason.
func (s *AccessService) ReviewRequest(ctx context.Context, actor *types.User, requestID string, input ReviewRequestInput) (*types.PropertyAccessRequest, error) {
	request, err := s.repo.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	property, err := s.properties.Property(ctx, request.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	if request.Status != types.AccessRequestPending {
		return nil, types.NewBadRequest("request has already been %s", strings.ToLower(string(request.Status)))
	}

	now := time.Now()

	if input.Approve {
		event := &types.AuditEvent{
			ActorID:    actor.ID,
			Action:     types.AuditAccessApproved,
			EntityType: auditEntityProperty,
			EntityID:   request.PropertyID,
			Detail:     map[string]any{"requesterId": request.RequesterID},
		}
		if err := s.repo.ApproveWithGrant(ctx, request, actor.ID, input.ExpiresAt, event); err != nil {
			return nil, fmt.Errorf("approve access request: %w", err)
		}

		request.Status = types.AccessRequestApproved
		request.ReviewedAt = &now
		request.ReviewedBy = &actor.ID
		return request, nil
	}

	reason := strings.TrimSpace(input.DeclineReason)
	if reason == "" {
		return nil, types.NewBadRequest("declineReason is required when declining a request")
	}

	if err := s.repo.Decline(ctx, requestID, actor.ID, reason); err != nil {
		return nil, fmt.Errorf("decline access request: %w", err)
	}

	s.record(ctx, actor, types.AuditAccessDeclined, request.PropertyID, map[string]any{
		"requesterId": request.RequesterID,
		"reason":      reason,
	})

	request.Status = types.AccessRequestDeclined
	request.DeclineReason = &reason
	request.ReviewedAt = &now
	request.ReviewedBy = &actor.ID
	return request, nil
}

type ShareAccessInput struct {
	UserID    string     `json:"userId"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// ShareAccess grants access directly, bypassing the request state
// machine. Re-sharing clears any prior revocation.
func (s *AccessService) ShareAccess(ctx context.Context, actor *types.User, propertyID string, input ShareAccessInput) (*types.PropertyAccess, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	user, err := s.users.User(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, types.NewBadRequest("user %s is deactivated", user.ID)
	}

	access := &types.PropertyAccess{
		PropertyID: propertyID,
		UserID:     user.ID,
		GrantedBy:  actor.ID,
		ExpiresAt:  input.ExpiresAt,
	}

	if err := s.repo.UpsertGrant(ctx, access); err != nil {
		return nil, fmt.Errorf("share access: %w", err)
	}

	s.record(ctx, actor, types.AuditAccessShared, propertyID, map[string]any{"userId": user.ID})

	return access, nil
}

// RevokeAccess marks the grant revoked. The row survives for the audit
// history; a later share or approval re-grants over it.
func (s *AccessService) RevokeAccess(ctx context.Context, actor *types.User, propertyID, userID string) error {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return err
	}

	if err := s.repo.Revoke(ctx, propertyID, userID, actor.ID); err != nil {
		return err
	}

	s.record(ctx, actor, types.AuditAccessRevoked, propertyID, map[string]any{"userId": userID})

	return nil
}

func (s *AccessService) ListAccess(ctx context.Context, actor *types.User, propertyID string) ([]*types.PropertyAccess, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	return s.repo.AccessByProperty(ctx, propertyID)
}

// CheckDashboardAccess answers whether the actor may view the property's
// dashboard. Admins and the property's manager always may; everyone else
// needs a live grant.
func (s *AccessService) CheckDashboardAccess(ctx context.Context, actor *types.User, propertyID string) (*types.AccessCheckResult, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if actor.Role == types.RoleAdmin {
		return &types.AccessCheckResult{HasAccess: true}, nil
	}
	if property.ManagerID != nil && *property.ManagerID == actor.ID {
		return &types.AccessCheckResult{HasAccess: true}, nil
	}

	access, err := s.repo.Access(ctx, propertyID, actor.ID)
	if err != nil {
		if errors.Is(err, types.ErrAccessNotFound) {
			return &types.AccessCheckResult{HasAccess: false, Reason: types.AccessDenialNone}, nil
		}
		return nil, err
	}

	if access.RevokedAt != nil {
		return &types.AccessCheckResult{HasAccess: false, Reason: types.AccessDenialRevoked}, nil
	}
	if access.ExpiresAt != nil && access.ExpiresAt.Before(time.Now()) {
		return &types.AccessCheckResult{HasAccess: false, Reason: types.AccessDenialExpired}, nil
	}

	return &types.AccessCheckResult{HasAccess: true}, nil
}

func (s *AccessService) AuditTrail(ctx context.Context, actor *types.User, propertyID string) ([]*types.AuditEvent, error) {
	property, err := s.properties.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	return s.audit.EventsByEntity(ctx, auditEntityProperty, propertyID)
}

func (s *AccessService) record(ctx context.Context, actor *types.User, action types.AuditAction, propertyID string, detail map[string]any) {
	event := &types.AuditEvent{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: auditEntityProperty,
		EntityID:   propertyID,
		Detail:     detail,
	}
	// Audit failures do not fail the operation they describe.
	_ = s.audit.Record(ctx, event)
}
