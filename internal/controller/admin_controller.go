package controller

import (
	"context"
	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	StudentService *service.StudentService
	SyncService    *service.SyncService
	AuthService    *service.AuthService
}

func NewAdminController(studentService *service.StudentService, syncService *service.SyncService, authService *service.AuthService) *AdminController {
	return &AdminController{
		StudentService: studentService,
		SyncService:    syncService,
		AuthService:    authService,
	}
}

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateAdmin godoc
// @Summary 创建管理员账号
// @Description 首个管理员可先用 master secret 登录后调用
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateAdminRequest true "管理员信息"
// @Success 201 {object} util.Response
// @Router /admin/admins [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin, err := c.AuthService.CreateAdmin(req.Username, req.Password)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": admin.ID, "username": admin.Username})
}

// GetAllStudents godoc
// @Summary 获取全部学生
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Student}
// @Router /admin/students [get]
func (c *AdminController) GetAllStudents(ctx *gin.Context) {
	students, err := c.StudentService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// DeleteStudent godoc
// @Summary 删除学生
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /admin/students/{id} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	if err := c.StudentService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessWithMessage(ctx, "Student removed", nil)
}

// RefreshAllStudents godoc
// @Summary 手动触发全量刷新
// @Description 后台异步执行，接口立即返回，避免请求超时
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/students/refresh [post]
func (c *AdminController) RefreshAllStudents(ctx *gin.Context) {
	go c.SyncService.RefreshAll(context.Background())

	util.SuccessWithMessage(ctx, "Refresh started in background. Data will update shortly.", nil)
}
