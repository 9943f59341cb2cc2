package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/issue-service/internal/api/dto"
	"github.com/campusops/issue-service/internal/auth"
	"github.com/campusops/issue-service/internal/domain"
	"github.com/campusops/issue-service/internal/service"
	apperrors "github.com/campusops/issue-service/pkg/util/errorutil"
)

// IssuesHandler exposes the issue reporting endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Create(c.Context(), *principal, service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location: domain.Location{
			Building: req.Location.Building,
			Room:     req.Location.Room,
			Floor:    req.Location.Floor,
		},
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Issue reported successfully", fiber.Map{"issue": dto.FromIssue(issue)})
}

// ListIssues GET /issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := parseIssueListQuery(c)
	issues, pagination, err := h.service.List(c.Context(), *principal, filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", fiber.Map{
		"issues": dto.FromIssues(issues),
		"pagination": dto.PaginationResponse{
			Current: pagination.Current,
			Pages:   pagination.Pages,
			Total:   pagination.Total,
		},
	})
}

// MyIssues GET /issues/my-issues.
func (h *IssuesHandler) MyIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issues, err := h.service.ListMine(c.Context(), *principal)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", fiber.Map{"issues": dto.FromIssues(issues)})
}

// Stats GET /issues/stats.
func (h *IssuesHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.service.Stats(c.Context(), *principal)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", stats)
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.service.GetByID(c.Context(), *principal, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", fiber.Map{"issue": dto.FromIssue(issue)})
}

// UpdateIssue PUT /issues/:id.
func (h *IssuesHandler) UpdateIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.Update(c.Context(), *principal, c.Params("id"), service.IssueUpdateInput{
		Status:             req.Status,
		Priority:           req.Priority,
		AssignedDepartment: req.AssignedDepartment,
		ResolutionNotes:    req.ResolutionNotes,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Issue updated successfully", fiber.Map{"issue": dto.FromIssue(issue)})
}

// AddComment POST /issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.AddComment(c.Context(), *principal, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Comment added successfully", fiber.Map{"issue": dto.FromIssue(issue)})
}

func parseIssueListQuery(c *fiber.Ctx) service.IssueListFilter {
	filter := service.IssueListFilter{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 10),
	}
	if val := queryValue(c, "status"); val != "" {
		status := domain.IssueStatus(val)
		filter.Status = &status
	}
	if val := queryValue(c, "priority"); val != "" {
		priority := domain.IssuePriority(val)
		filter.Priority = &priority
	}
	if val := queryValue(c, "category"); val != "" {
		category := domain.IssueCategory(val)
		filter.Category = &category
	}
	if val := queryValue(c, "department"); val != "" {
		department := domain.Department(val)
		filter.Department = &department
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	return filter
}

// queryValue treats "all" as unset, matching the frontend filter dropdowns.
func queryValue(c *fiber.Ctx, key string) string {
	val := strings.TrimSpace(c.Query(key))
	if val == "all" {
		return ""
	}
	return val
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
