package service

import (
	"context"
	"fmt"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/repository"
	"leet_track_backend/internal/util"
	"leet_track_backend/pkg/cache"
	"sort"
	"time"
)

// 排行榜查询结果短暂缓存，key 按筛选参数区分
const leaderboardTTL = 2 * time.Minute

type StudentService struct {
	StudentRepo  *repository.StudentRepository
	ProgressRepo *repository.ProgressRepository
	Sync         *SyncService
	Cache        cache.Store
}

func NewStudentService(studentRepo *repository.StudentRepository, progressRepo *repository.ProgressRepository, sync *SyncService, store cache.Store) *StudentService {
	return &StudentService{
		StudentRepo:  studentRepo,
		ProgressRepo: progressRepo,
		Sync:         sync,
		Cache:        store,
	}
}

// GetProfile 读取学生快照，顺带触发懒加载刷新。
// 刷新失败不会向上传播，返回的快照最多是陈旧的，绝不缺失。
func (s *StudentService) GetProfile(ctx context.Context, studentID uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, util.ErrStudentNotFound
	}

	s.Sync.RefreshIfStale(ctx, student)

	return student, nil
}

// GetByID 无刷新副作用的读取
func (s *StudentService) GetByID(studentID uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, util.ErrStudentNotFound
	}
	return student, nil
}

func (s *StudentService) ListAll() ([]model.Student, error) {
	return s.StudentRepo.FindAll()
}

// GetLeaderboard 只包含绑定了 LeetCode 用户名的学生，按 totalSolved 降序
func (s *StudentService) GetLeaderboard(ctx context.Context, year int, section string) ([]model.LeaderboardEntry, error) {
	key := fmt.Sprintf("leaderboard:year=%d:section=%s", year, section)

	var entries []model.LeaderboardEntry
	_, err := s.Cache.GetOrCompute(ctx, key, leaderboardTTL, &entries, func() (interface{}, error) {
		students, err := s.StudentRepo.FindForLeaderboard(year, section)
		if err != nil {
			return nil, err
		}

		computed := make([]model.LeaderboardEntry, 0, len(students))
		for _, student := range students {
			computed = append(computed, model.LeaderboardEntry{
				ID:               student.ID,
				Name:             student.Name,
				LibraryID:        student.LibraryID,
				Section:          student.Section,
				Year:             student.Year,
				LeetCodeUsername: student.LeetCodeUsername,
				TotalSolved:      student.Stats.TotalSolved,
				Ranking:          student.Stats.Ranking,
			})
		}

		sort.SliceStable(computed, func(i, j int) bool {
			return computed[i].TotalSolved > computed[j].TotalSolved
		})

		return computed, nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete 学生移除时连带清理其清单进度
func (s *StudentService) Delete(studentID uint) error {
	if err := s.StudentRepo.Delete(studentID); err != nil {
		return err
	}
	return s.ProgressRepo.DeleteByStudent(studentID)
}
