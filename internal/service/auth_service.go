package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"
	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/config"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrSessionInvalid     = errors.New("会话无效或已过期")
	ErrUserNotFound       = errors.New("用户不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	// Login 校验凭据并签发会话，返回会话令牌与用户信息
	Login(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error)
	Logout(ctx context.Context, token string) error
	// Authenticate 校验会话令牌，返回会话所属用户（中间件使用）
	Authenticate(ctx context.Context, token string) (*dto.UserResponse, error)
	UpdatePlan(ctx context.Context, userID, plan string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil，降级为纯数据库查询
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码散列失败", zap.Error(err))
		return nil, err
	}

	plan := req.Plan
	if plan == "" {
		plan = "regular"
	}
	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Plan:         plan,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (string, *dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return "", nil, err
	}

	if !verifyPassword(req.Password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		s.logger.Error("生成会话令牌失败", zap.Error(err))
		return "", nil, err
	}

	session := &model.Session{
		Token:     token,
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(s.cfg.Session.TTL),
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("创建会话失败", zap.Error(err))
		return "", nil, err
	}

	// 旁路缓存：令牌 → 用户 ID，Redis 不可用时直接跳过
	if s.rdb != nil {
		if err := s.rdb.CacheSession(ctx, token, user.UserID, s.cfg.Session.TTL); err != nil {
			s.logger.Warn("会话缓存写入失败", zap.Error(err))
		}
	}

	return token, toUserResponse(user), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if s.rdb != nil {
		if err := s.rdb.DropSession(ctx, token); err != nil {
			s.logger.Warn("会话缓存清除失败", zap.Error(err))
		}
	}
	return s.repo.Session.Delete(ctx, token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*dto.UserResponse, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	// 先查缓存，未命中回源数据库并回填
	if s.rdb != nil {
		userID, err := s.rdb.GetSession(ctx, token)
		if err != nil {
			s.logger.Warn("会话缓存查询失败", zap.Error(err))
		} else if userID != "" {
			user, err := s.repo.User.GetByID(ctx, userID)
			if err == nil {
				return toUserResponse(user), nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	session, err := s.repo.Session.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("查询会话失败", zap.Error(err))
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.repo.Session.Delete(ctx, token)
		return nil, ErrSessionInvalid
	}

	user, err := s.repo.User.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	if s.rdb != nil {
		ttl := time.Until(session.ExpiresAt)
		if err := s.rdb.CacheSession(ctx, token, user.UserID, ttl); err != nil {
			s.logger.Warn("会话缓存回填失败", zap.Error(err))
		}
	}

	return toUserResponse(user), nil
}

func (s *authService) UpdatePlan(ctx context.Context, userID, plan string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Plan = plan
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.UserID,
		Username: user.Username,
		Plan:     user.Plan,
	}
}

// ── 密码散列（scrypt，存储格式 "salt:hash" 十六进制） ──

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

func verifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// newSessionToken 生成 32 字节随机会话令牌（十六进制 64 字符）
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("读取随机数失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
