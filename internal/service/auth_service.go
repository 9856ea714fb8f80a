package service

import (
	"context"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/model"
	"leet_track_backend/internal/repository"
	"leet_track_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthStore 注册与登录需要的最小学生存储接口
type AuthStore interface {
	FindByLibraryID(libraryID string) (*model.Student, error)
	Create(student *model.Student) error
}

type AuthService struct {
	StudentRepo AuthStore
	AdminRepo   *repository.AdminRepository
	Fetcher     StatsFetcher
	Cfg         *config.Config
}

func NewAuthService(studentRepo AuthStore, adminRepo *repository.AdminRepository, fetcher StatsFetcher, cfg *config.Config) *AuthService {
	return &AuthService{
		StudentRepo: studentRepo,
		AdminRepo:   adminRepo,
		Fetcher:     fetcher,
		Cfg:         cfg,
	}
}

type RegisterInput struct {
	LibraryID        string
	Password         string
	Name             string
	Section          string
	Year             int
	LeetCodeUsername string
}

// RegisterStudent 注册要求 LeetCode 用户名可验证：完整抓一次数据，
// 聚合统计拿不到就拒绝注册，不创建任何记录。
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterInput) (*model.Student, string, error) {
	_, err := s.StudentRepo.FindByLibraryID(input.LibraryID)
	if err == nil {
		return nil, "", util.ErrLibraryIDRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, "", err
	}

	if input.LeetCodeUsername == "" {
		return nil, "", util.ErrLeetCodeUsernameMissing
	}

	bundle := s.Fetcher.FetchAllStats(ctx, input.LeetCodeUsername)
	if !bundle.StatsOK() {
		return nil, "", util.ErrInvalidLeetCodeUsername
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	student := &model.Student{
		LibraryID:        input.LibraryID,
		PasswordHash:     string(hashedPassword),
		Name:             input.Name,
		Section:          input.Section,
		Year:             input.Year,
		LeetCodeUsername: input.LeetCodeUsername,
	}

	now := time.Now()
	applyFetchBundle(student, bundle, now)
	student.LastUpdated = now

	if err := s.StudentRepo.Create(student); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(student.ID, model.RoleStudent, student.LibraryID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	return student, token, nil
}

func (s *AuthService) LoginStudent(libraryID, password string) (*model.Student, string, error) {
	student, err := s.StudentRepo.FindByLibraryID(libraryID)
	if err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(student.ID, model.RoleStudent, student.LibraryID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}

	return student, token, nil
}

// CreateAdmin 创建数据库管理员账号，配合 master secret 完成初始化
func (s *AuthService) CreateAdmin(username, password string) (*model.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.AdminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// LoginAdmin 优先查数据库管理员；数据库没有命中且配置了 master secret 时
// 允许用其登录（仅用于初始化部署）
func (s *AuthService) LoginAdmin(username, password string) (string, error) {
	admin, err := s.AdminRepo.FindByUsername(username)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil {
			return util.GenerateJWT(admin.ID, model.RoleAdmin, "", s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
		}
		return "", util.ErrInvalidCredentials
	}

	if s.Cfg.Admin.MasterSecret != "" && password == s.Cfg.Admin.MasterSecret {
		return util.GenerateJWT(0, model.RoleAdmin, "", s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	}

	return "", util.ErrInvalidCredentials
}
