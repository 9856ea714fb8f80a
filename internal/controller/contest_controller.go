package controller

import (
	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContestController struct {
	ContestService *service.ContestService
}

func NewContestController(contestService *service.ContestService) *ContestController {
	return &ContestController{ContestService: contestService}
}

// GetUpcomingContests godoc
// @Summary 获取即将开始的比赛（Codeforces + CodeChef）
// @Tags 比赛
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Contest}
// @Router /contests [get]
func (c *ContestController) GetUpcomingContests(ctx *gin.Context) {
	contests := c.ContestService.GetUpcomingContests(ctx.Request.Context())
	util.Success(ctx, contests)
}
