package controller

import (
	"net/http"

	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	AnalysisService *service.AnalysisService
}

func NewAnalysisController(analysisService *service.AnalysisService) *AnalysisController {
	return &AnalysisController{AnalysisService: analysisService}
}

// AnalyzeProgress godoc
// @Summary 生成当前学生的 AI 学习分析
// @Description 24 小时内最多生成一次，窗口内返回缓存结果
// @Tags 学习分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProgressAnalysis}
// @Failure 500 {object} util.Response
// @Router /students/me/analysis [post]
func (c *AnalysisController) AnalyzeProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.AnalysisService.RequestAnalysis(ctx.Request.Context(), claims.UserID)
	if err != nil {
		switch err {
		case util.ErrStudentNotFound:
			util.NotFound(ctx)
		case util.ErrAnalysisParseFailed:
			util.Error(ctx, http.StatusInternalServerError, "Failed to parse analysis results")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	message := "Analysis generated"
	if result.Cached {
		message = "Analysis retrieved from cache"
	}
	util.SuccessWithMessage(ctx, message, result.Analysis)
}
