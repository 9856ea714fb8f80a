package controller

import (
	"leet_track_backend/internal/service"
	"leet_track_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// GetProfile godoc
// @Summary 获取当前学生档案
// @Description 读取时触发懒加载刷新：超过冷却窗口则重新抓取 LeetCode 数据，抓取失败返回上一次的快照
// @Tags 学生
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Router /students/me [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	student, err := c.StudentService.GetProfile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, student)
}

// GetStudent godoc
// @Summary 按 ID 获取学生
// @Description 无刷新副作用的读取
// @Tags 学生
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	student, err := c.StudentService.GetByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, student)
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description 仅包含绑定了 LeetCode 用户名的学生，按解题总数降序，支持按年级和班级筛选
// @Tags 学生
// @Produce json
// @Security ApiKeyAuth
// @Param year query int false "年级"
// @Param section query string false "班级"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /leaderboard [get]
func (c *StudentController) GetLeaderboard(ctx *gin.Context) {
	year, _ := strconv.Atoi(ctx.Query("year"))
	section := ctx.Query("section")

	entries, err := c.StudentService.GetLeaderboard(ctx.Request.Context(), year, section)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
