package controllers

import (
	"strconv"

	"membergate/dto"
	"membergate/middleware"
	"membergate/response"
	"membergate/services"

	"github.com/gin-gonic/gin"
)

type MemberController struct {
	Directory *services.DirectoryService
}

func NewMemberController(directory *services.DirectoryService) MemberController {
	return MemberController{Directory: directory}
}

func (m MemberController) ListMembers(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	members, err := m.Directory.ListMembers(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, members, len(members))
}

func (m MemberController) SearchMembers(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	result, err := m.Directory.SearchMembers(c.Request.Context(), principal, c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

func (m MemberController) CreateMember(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var input dto.CreateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "code and PIN are required")
		return
	}

	member, err := m.Directory.CreateMember(c.Request.Context(), principal, services.CreateMemberInput{
		Code:        input.Code,
		Secret:      input.Pin,
		DisplayName: input.Name,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.NewMemberResponse(member))
}

func (m MemberController) UpdateMember(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, ok := memberID(c)
	if !ok {
		return
	}
	var input dto.UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	member, err := m.Directory.UpdateMember(c.Request.Context(), principal, id, services.MemberPatch{
		DisplayName: input.Name,
		Comment:     input.Comment,
		Secret:      input.Secret(),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewMemberResponse(member))
}

func (m MemberController) SetStatus(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, ok := memberID(c)
	if !ok {
		return
	}
	var input dto.SetStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "active is required")
		return
	}

	member, err := m.Directory.SetActive(c.Request.Context(), principal, id, *input.Active)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.StatusResponse{ID: member.ID, Active: member.Active})
}

func (m MemberController) DeleteMember(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, ok := memberID(c)
	if !ok {
		return
	}

	member, err := m.Directory.DeleteMember(c.Request.Context(), principal, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewMemberResponse(member))
}

func memberID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid member id")
		return 0, false
	}
	return uint(id), true
}
