package stubapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/user/me",
		Summary:     "Get current user",
		Tags:        []string{"User"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPut,
		Path:        "/api/user/update",
		Summary:     "Update profile",
		Tags:        []string{"User"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUser)
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body domain.User
}

// UpdateUserRequest carries the mutable profile fields.
type UpdateUserRequest struct {
	WhatsappNumber  string `json:"whatsappNumber,omitempty" validate:"omitempty,min=8,max=20" doc:"Contact number"`
	AlternateNumber string `json:"alternateNumber,omitempty" validate:"omitempty,min=8,max=20" doc:"Alternate number"`
	Address         string `json:"address,omitempty" validate:"omitempty,max=500" doc:"Street address"`
	Pincode         string `json:"pincode,omitempty" validate:"omitempty,len=6,numeric" doc:"Postal code"`
	State           string `json:"state,omitempty" doc:"State"`
	District        string `json:"district,omitempty" doc:"District"`
}

// UpdateUserInput wraps the update request for Huma.
type UpdateUserInput struct {
	Body UpdateUserRequest
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID := authedUserID(ctx)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	userID := authedUserID(ctx)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Body.WhatsappNumber != "" {
		user.WhatsappNumber = input.Body.WhatsappNumber
	}
	if input.Body.AlternateNumber != "" {
		user.AlternateNumber = input.Body.AlternateNumber
	}
	if input.Body.Address != "" {
		user.Address = input.Body.Address
	}
	if input.Body.Pincode != "" {
		user.Pincode = input.Body.Pincode
	}
	if input.Body.State != "" {
		user.State = input.Body.State
	}
	if input.Body.District != "" {
		user.District = input.Body.District
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}
