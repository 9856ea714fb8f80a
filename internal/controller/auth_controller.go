package controller

import (
	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest 学生注册请求
// swagger:model RegisterRequest
type RegisterRequest struct {
	LibraryID        string `json:"libraryId" binding:"required"`
	Password         string `json:"password" binding:"required,min=6"`
	Name             string `json:"name" binding:"required"`
	Section          string `json:"section"`
	Year             int    `json:"year"`
	LeetCodeUsername string `json:"leetcodeUsername" binding:"required"`
}

type LoginRequest struct {
	LibraryID string `json:"libraryId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary 学生注册
// @Description 注册时验证 LeetCode 用户名并抓取初始数据，用户名无效则拒绝
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "参数错误或 LeetCode 用户名无效"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, token, err := c.AuthService.RegisterStudent(ctx.Request.Context(), service.RegisterInput{
		LibraryID:        req.LibraryID,
		Password:         req.Password,
		Name:             req.Name,
		Section:          req.Section,
		Year:             req.Year,
		LeetCodeUsername: req.LeetCodeUsername,
	})
	if err != nil {
		switch err {
		case util.ErrLibraryIDRegistered, util.ErrLeetCodeUsernameMissing:
			util.BadRequest(ctx, err.Error())
		case util.ErrInvalidLeetCodeUsername:
			util.BadRequest(ctx, "Invalid LeetCode username. Please verify.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"id":                student.ID,
		"libraryId":         student.LibraryID,
		"name":              student.Name,
		"stats":             student.Stats,
		"recentSubmissions": student.RecentSubmissions,
		"token":             token,
	})
}

// Login godoc
// @Summary 学生登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, token, err := c.AuthService.LoginStudent(req.LibraryID, req.Password)
	if err != nil {
		util.Error(ctx, http.StatusUnauthorized, "Invalid Library ID or Password")
		return
	}

	util.Success(ctx, gin.H{
		"id":               student.ID,
		"libraryId":        student.LibraryID,
		"name":             student.Name,
		"leetcodeUsername": student.LeetCodeUsername,
		"stats":            student.Stats,
		"token":            token,
	})
}

// AdminLogin godoc
// @Summary 管理员登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.LoginAdmin(req.Username, req.Password)
	if err != nil {
		util.Error(ctx, http.StatusUnauthorized, "Invalid Admin Credentials")
		return
	}

	util.Success(ctx, gin.H{
		"username": req.Username,
		"token":    token,
	})
}
