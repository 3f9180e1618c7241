package handlers

import (
	"net/http"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"

	"github.com/gin-gonic/gin"
)

// familyHandler handles HTTP requests related to families and memberships.
type familyHandler struct {
	familyService portssvc.FamilySvcFacade
}

// newFamilyHandler creates a new familyHandler.
func newFamilyHandler(fs portssvc.FamilySvcFacade) *familyHandler {
	return &familyHandler{
		familyService: fs,
	}
}

// RegisterFamilyRoutes registers all family-related routes.
func RegisterFamilyRoutes(rg *gin.RouterGroup, familyService portssvc.FamilySvcFacade) {
	h := newFamilyHandler(familyService)

	families := rg.Group("/families")
	{
		families.POST("", h.createFamily)
		families.GET("", h.listFamilies)
		families.GET("/:familyID", h.getFamily)
		families.PUT("/:familyID", h.updateFamily)
		families.DELETE("/:familyID", h.deleteFamily)

		families.GET("/:familyID/members", h.listMembers)
		families.POST("/:familyID/members", h.inviteMember)
		families.PUT("/:familyID/members/:userID", h.updateMemberRole)
		families.DELETE("/:familyID/members/:userID", h.removeMember)
	}
}

// createFamily godoc
// @Summary Create a family
// @Description Creates a family; the creator becomes its first admin member.
// @Tags families
// @Accept json
// @Produce json
// @Param family body dto.CreateFamilyRequest true "Family details"
// @Success 201 {object} dto.FamilyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /families [post]
func (h *familyHandler) createFamily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), req.Name, req.Description, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFamilyResponse(family, 1))
}

// listFamilies godoc
// @Summary List own families
// @Description Retrieves families where the caller holds an active membership.
// @Tags families
// @Produce json
// @Success 200 {object} dto.ListFamiliesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /families [get]
func (h *familyHandler) listFamilies(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	families, err := h.familyService.ListUserFamilies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListFamiliesResponse{Families: make([]dto.FamilyResponse, len(families))}
	for i := range families {
		resp.Families[i] = dto.ToFamilyResponse(&families[i], 0)
	}
	c.JSON(http.StatusOK, resp)
}

// getFamily godoc
// @Summary Get a family
// @Description Retrieves a family visible to the caller, with its active member count.
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.FamilyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID} [get]
func (h *familyHandler) getFamily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	family, memberCount, err := h.familyService.GetFamily(c.Request.Context(), userID, c.Param("familyID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFamilyResponse(family, memberCount))
}

// updateFamily godoc
// @Summary Update a family
// @Description Renames a family. Admin only.
// @Tags families
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param family body dto.UpdateFamilyRequest true "Fields to update"
// @Success 200 {object} dto.FamilyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID} [put]
func (h *familyHandler) updateFamily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	family, err := h.familyService.UpdateFamily(c.Request.Context(), userID, c.Param("familyID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFamilyResponse(family, 0))
}

// deleteFamily godoc
// @Summary Delete a family
// @Description Deletes a family and everything it owns. Admin only.
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID} [delete]
func (h *familyHandler) deleteFamily(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.familyService.DeleteFamily(c.Request.Context(), userID, c.Param("familyID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List family members
// @Description Retrieves the memberships of a family. Any active member may read the list.
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Success 200 {object} dto.ListFamilyMembersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/members [get]
func (h *familyHandler) listMembers(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	members, err := h.familyService.ListFamilyMembers(c.Request.Context(), userID, c.Param("familyID"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListFamilyMembersResponse{Members: make([]dto.FamilyMemberResponse, len(members))}
	for i := range members {
		resp.Members[i] = dto.ToFamilyMemberResponse(&members[i])
	}
	c.JSON(http.StatusOK, resp)
}

// inviteMember godoc
// @Summary Invite a member
// @Description Adds an existing user (by email) to the family, reactivating a previously deactivated membership in place. Admin only.
// @Tags families
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param invite body dto.InviteMemberRequest true "Invitee email"
// @Success 201 {object} dto.InviteMemberResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No user with that email"
// @Failure 409 {object} ErrorResponse "Already an active member"
// @Security BearerAuth
// @Router /families/{familyID}/members [post]
func (h *familyHandler) inviteMember(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	status, member, err := h.familyService.InviteMember(c.Request.Context(), userID, c.Param("familyID"), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusCreated
	if status == dto.InviteStatusReactivated {
		code = http.StatusOK
	}
	c.JSON(code, dto.InviteMemberResponse{
		Status: status,
		Member: dto.ToFamilyMemberResponse(member),
	})
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description Updates the role of an active membership. Admin only.
// @Tags families
// @Accept json
// @Produce json
// @Param familyID path string true "Family ID"
// @Param userID path string true "Member's user ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 200 {object} dto.FamilyMemberResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/members/{userID} [put]
func (h *familyHandler) updateMemberRole(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	member, err := h.familyService.UpdateMemberRole(c.Request.Context(), userID, c.Param("familyID"), c.Param("userID"), domain.FamilyRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFamilyMemberResponse(member))
}

// removeMember godoc
// @Summary Remove a member
// @Description Deactivates a membership; the row is kept so a later invite reactivates it. Admin only.
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Param userID path string true "Member's user ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{familyID}/members/{userID} [delete]
func (h *familyHandler) removeMember(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.familyService.RemoveMember(c.Request.Context(), userID, c.Param("familyID"), c.Param("userID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
