package controller

import (
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SheetController struct {
	SheetService *service.SheetService
}

func NewSheetController(sheetService *service.SheetService) *SheetController {
	return &SheetController{SheetService: sheetService}
}

type ToggleProgressRequest struct {
	SheetName string `json:"sheetName" binding:"required"`
	Topic     string `json:"topic" binding:"required"`
	ProblemID string `json:"problemId" binding:"required"`
}

// GetSheetsList godoc
// @Summary 获取刷题清单列表
// @Tags 刷题清单
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /sheets [get]
func (c *SheetController) GetSheetsList(ctx *gin.Context) {
	sheets, err := c.SheetService.ListSheets()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sheets)
}

// GetSheetContent godoc
// @Summary 获取某清单的全部题目（按专题分组）
// @Tags 刷题清单
// @Produce json
// @Security ApiKeyAuth
// @Param sheetName path string true "清单名称"
// @Success 200 {object} util.Response{data=[]model.DsaSheet}
// @Failure 404 {object} util.Response
// @Router /sheets/{sheetName} [get]
func (c *SheetController) GetSheetContent(ctx *gin.Context) {
	sheets, err := c.SheetService.GetSheetContent(ctx.Param("sheetName"))
	if err != nil {
		if err == util.ErrSheetNotFound {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, sheets)
}

// GetStudentProgress godoc
// @Summary 当前学生在某清单下的进度
// @Tags 刷题清单
// @Produce json
// @Security ApiKeyAuth
// @Param sheetName path string true "清单名称"
// @Success 200 {object} util.Response{data=[]model.StudentSheetProgress}
// @Router /sheets/{sheetName}/progress [get]
func (c *SheetController) GetStudentProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.SheetService.GetStudentProgress(claims.UserID, ctx.Param("sheetName"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// UpdateProgress godoc
// @Summary 切换一道题的完成状态
// @Tags 刷题清单
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ToggleProgressRequest true "题目标识"
// @Success 200 {object} util.Response{data=model.StudentSheetProgress}
// @Router /sheets/progress [post]
func (c *SheetController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ToggleProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.SheetService.ToggleProgress(claims.UserID, req.SheetName, req.Topic, req.ProblemID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

type UpsertSheetRequest struct {
	SheetName string               `json:"sheetName" binding:"required"`
	Topic     string               `json:"topic" binding:"required"`
	Problems  []model.SheetProblem `json:"problems" binding:"required"`
}

// UpsertSheet godoc
// @Summary 新建或替换某清单专题下的题目（管理端）
// @Tags 刷题清单
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpsertSheetRequest true "清单内容"
// @Success 200 {object} util.Response{data=model.DsaSheet}
// @Router /admin/sheets [post]
func (c *SheetController) UpsertSheet(ctx *gin.Context) {
	var req UpsertSheetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sheet, err := c.SheetService.UpsertSheet(req.SheetName, req.Topic, req.Problems)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sheet)
}

// DeleteSheetTopic godoc
// @Summary 删除某清单下的一个专题（管理端）
// @Tags 刷题清单
// @Produce json
// @Security ApiKeyAuth
// @Param sheetName path string true "清单名称"
// @Param topic path string true "专题名称"
// @Success 200 {object} util.Response
// @Router /admin/sheets/{sheetName}/topics/{topic} [delete]
func (c *SheetController) DeleteSheetTopic(ctx *gin.Context) {
	if err := c.SheetService.DeleteTopic(ctx.Param("sheetName"), ctx.Param("topic")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessWithMessage(ctx, "Topic removed", nil)
}

// GetAllStudentsProgress godoc
// @Summary 某清单下所有学生的进度（管理端）
// @Tags 刷题清单
// @Produce json
// @Security ApiKeyAuth
// @Param sheetName path string true "清单名称"
// @Success 200 {object} util.Response{data=[]service.SheetProgressOverview}
// @Router /admin/sheets/{sheetName}/progress [get]
func (c *SheetController) GetAllStudentsProgress(ctx *gin.Context) {
	overview, err := c.SheetService.GetSheetOverview(ctx.Param("sheetName"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
