package backend

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/salonworks/pos-terminal/pkg/enums"
)

// CustomerRecord is the directory's view of a registered customer.
type CustomerRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// MembershipRecord is a customer-held plan granting a recurring discount.
type MembershipRecord struct {
	ID                 string                 `json:"id"`
	PlanName           string                 `json:"plan_name"`
	Status             enums.MembershipStatus `json:"status"`
	DiscountPercentage decimal.Decimal        `json:"discount_percentage"`
	ServiceIDs         []string               `json:"service_ids,omitempty"`
}

// MembershipValidation is the per-transaction eligibility result.
type MembershipValidation struct {
	IsValid        bool            `json:"is_valid"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CustomerPayload creates or updates a directory entry.
type CustomerPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type membershipsResponse struct {
	Memberships []MembershipRecord `json:"memberships"`
}

type validateMembershipRequest struct {
	MembershipID string   `json:"membership_id"`
	ServiceIDs   []string `json:"service_ids"`
}

// VerifyByPhone resolves a 10-digit phone to a customer. A directory miss
// surfaces as a NOT_FOUND error; callers treat that as the new-customer
// branch, not a failure.
func (c *Client) VerifyByPhone(ctx context.Context, phone string) (*CustomerRecord, error) {
	query := url.Values{"phone": {phone}}
	var customer CustomerRecord
	if err := c.do(ctx, "GET", "/api/v1/customers/verify", query, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetMemberships lists the customer's memberships, all statuses included.
func (c *Client) GetMemberships(ctx context.Context, customerID string) ([]MembershipRecord, error) {
	var payload membershipsResponse
	path := "/api/v1/customers/" + url.PathEscape(customerID) + "/memberships"
	if err := c.do(ctx, "GET", path, nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Memberships, nil
}

// ValidateMembership checks per-transaction eligibility against the cart's
// service ids and returns the authoritative discount amount.
func (c *Client) ValidateMembership(ctx context.Context, membershipID string, serviceIDs []string) (*MembershipValidation, error) {
	body := validateMembershipRequest{MembershipID: membershipID, ServiceIDs: serviceIDs}
	var validation MembershipValidation
	if err := c.do(ctx, "POST", "/api/v1/memberships/validate", nil, body, &validation); err != nil {
		return nil, err
	}
	return &validation, nil
}

// UpsertCustomer registers or updates a customer; the directory assigns ids.
func (c *Client) UpsertCustomer(ctx context.Context, payload CustomerPayload) (*CustomerRecord, error) {
	var customer CustomerRecord
	if err := c.do(ctx, "POST", "/api/v1/customers", nil, payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
