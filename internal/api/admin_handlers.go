package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns all accounts. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminSetUserRole",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/users/{id}/role",
		Summary:     "Set user role",
		Description: "Changes an account's role. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminSetRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Removes an account and revokes its sessions. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminReindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Rebuilds the full-text index from the catalog. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminReindex)
}

// AdminUsersOutput wraps the account listing for Huma.
type AdminUsersOutput struct {
	Body struct {
		Users []UserResponse `json:"users"`
	}
}

// AdminSetRoleInput wraps the role change for Huma.
type AdminSetRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          struct {
		Role string `json:"role" enum:"admin,user" doc:"New role"`
	}
}

// AdminUserInput identifies one account.
type AdminUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// AdminActionOutput reports success of an admin action.
type AdminActionOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// ReindexOutput reports the rebuild result.
type ReindexOutput struct {
	Body struct {
		Success bool `json:"success"`
		Indexed int  `json:"indexed" doc:"Number of books indexed"`
	}
}

func (s *Server) handleAdminListUsers(ctx context.Context, input *CurrentUserInput) (*AdminUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := &AdminUsersOutput{}
	out.Body.Users = make([]UserResponse, len(users))
	for i, user := range users {
		out.Body.Users[i] = userResponse(user)
	}
	return out, nil
}

func (s *Server) handleAdminSetRole(ctx context.Context, input *AdminSetRoleInput) (*UserOutput, error) {
	adminID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if adminID == input.ID {
		return nil, huma.Error409Conflict("You cannot change your own role")
	}

	user, err := s.services.Users.SetRole(ctx, input.ID, domain.Role(input.Body.Role))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userResponse(user)}, nil
}

func (s *Server) handleAdminDeleteUser(ctx context.Context, input *AdminUserInput) (*AdminActionOutput, error) {
	adminID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if adminID == input.ID {
		return nil, huma.Error409Conflict("You cannot delete your own account")
	}

	if err := s.services.Users.DeleteUser(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &AdminActionOutput{}
	out.Body.Success = true
	return out, nil
}

func (s *Server) handleAdminReindex(ctx context.Context, input *CurrentUserInput) (*ReindexOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	indexed, err := s.services.Search.ReindexAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &ReindexOutput{}
	out.Body.Success = true
	out.Body.Indexed = indexed
	return out, nil
}
