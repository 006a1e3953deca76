package controllers

import (
	"membergate/dto"
	"membergate/middleware"
	"membergate/response"
	"membergate/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) AuthController {
	return AuthController{Auth: auth}
}

func (a AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "code and PIN are required")
		return
	}

	result, err := a.Auth.Authenticate(c.Request.Context(), input.Code, input.Pin)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewMemberResponse(result.Member),
	})
}

func (a AuthController) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	member, err := a.Auth.Me(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.NewMemberResponse(member))
}
