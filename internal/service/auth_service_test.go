package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
)

func dtoRegister(username, password, plan string) *dto.RegisterRequest {
	return &dto.RegisterRequest{Username: username, Password: password, Plan: plan}
}

func dtoLogin(username, password string) *dto.LoginRequest {
	return &dto.LoginRequest{Username: username, Password: password}
}

func setupTestAuthService() (AuthService, *mockUserRepo, *mockSessionRepo) {
	repo, userRepo, _, _ := newMockRepository()
	sessionRepo := repo.Session.(*mockSessionRepo)
	svc := NewAuthService(testConfig(), repo, nil, testLogger())
	return svc, userRepo, sessionRepo
}

func TestRegister_Success(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	user, err := svc.Register(context.Background(), dtoRegister("somchai", "password123", "coop"))
	if err != nil {
		t.Fatalf("Register 应成功，但返回错误: %v", err)
	}
	if user.Username != "somchai" {
		t.Errorf("期望 Username=somchai，实际=%s", user.Username)
	}
	if user.Plan != "coop" {
		t.Errorf("期望 Plan=coop，实际=%s", user.Plan)
	}
	if user.ID == "" {
		t.Error("用户 ID 不应为空")
	}
}

func TestRegister_DefaultPlan(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	user, err := svc.Register(context.Background(), dtoRegister("somchai", "password123", ""))
	if err != nil {
		t.Fatalf("Register 应成功，但返回错误: %v", err)
	}
	if user.Plan != "regular" {
		t.Errorf("期望默认 Plan=regular，实际=%s", user.Plan)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "somchai", "regular")

	_, err := svc.Register(context.Background(), dtoRegister("somchai", "password123", ""))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, sessionRepo := setupTestAuthService()
	seedUser(userRepo, "somchai", "regular")

	token, user, err := svc.Login(context.Background(), dtoLogin("somchai", "password123"))
	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("令牌应为 64 位十六进制，实际长度=%d", len(token))
	}
	if user.Username != "somchai" {
		t.Errorf("期望 Username=somchai，实际=%s", user.Username)
	}

	session, ok := sessionRepo.sessions[token]
	if !ok {
		t.Fatal("会话应已落库")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl < 167*time.Hour || ttl > 169*time.Hour {
		t.Errorf("会话有效期应约为 7 天，实际=%v", ttl)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "somchai", "regular")

	_, _, err := svc.Login(context.Background(), dtoLogin("somchai", "wrong_password"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, _, err := svc.Login(context.Background(), dtoLogin("nonexistent", "password123"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seeded := seedUser(userRepo, "somchai", "regular")

	token, _, err := svc.Login(context.Background(), dtoLogin("somchai", "password123"))
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate 应成功，但返回错误: %v", err)
	}
	if user.ID != seeded.UserID {
		t.Errorf("期望用户 %s，实际=%s", seeded.UserID, user.ID)
	}
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Authenticate(context.Background(), "")
	if !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("期望 ErrSessionInvalid，实际: %v", err)
	}
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	svc, userRepo, sessionRepo := setupTestAuthService()
	seedUser(userRepo, "somchai", "regular")

	token, _, err := svc.Login(context.Background(), dtoLogin("somchai", "password123"))
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	sessionRepo.sessions[token].ExpiresAt = time.Now().Add(-time.Hour)

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("期望 ErrSessionInvalid，实际: %v", err)
	}
	if _, ok := sessionRepo.sessions[token]; ok {
		t.Error("过期会话应被顺带删除")
	}
}

func TestLogout(t *testing.T) {
	svc, userRepo, sessionRepo := setupTestAuthService()
	seedUser(userRepo, "somchai", "regular")

	token, _, err := svc.Login(context.Background(), dtoLogin("somchai", "password123"))
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout 失败: %v", err)
	}
	if _, ok := sessionRepo.sessions[token]; ok {
		t.Error("会话应已删除")
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("登出后令牌应失效，实际: %v", err)
	}
}

func TestUpdatePlan(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seeded := seedUser(userRepo, "somchai", "regular")

	user, err := svc.UpdatePlan(context.Background(), seeded.UserID, "honors")
	if err != nil {
		t.Fatalf("UpdatePlan 失败: %v", err)
	}
	if user.Plan != "honors" {
		t.Errorf("期望 Plan=honors，实际=%s", user.Plan)
	}
	if userRepo.users[seeded.UserID].Plan != "honors" {
		t.Error("培养方案应已落库")
	}
}

func TestUpdatePlan_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.UpdatePlan(context.Background(), "nonexistent", "coop")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestPasswordHashFormat(t *testing.T) {
	hash, err := hashPassword("password123")
	if err != nil {
		t.Fatalf("hashPassword 失败: %v", err)
	}
	parts := strings.SplitN(hash, ":", 2)
	if len(parts) != 2 {
		t.Fatalf("散列格式应为 salt:hash，实际=%s", hash)
	}
	if len(parts[0]) != 32 || len(parts[1]) != 128 {
		t.Errorf("盐应 16 字节、密钥应 64 字节（十六进制），实际长度 %d/%d", len(parts[0]), len(parts[1]))
	}

	if !verifyPassword("password123", hash) {
		t.Error("正确密码应校验通过")
	}
	if verifyPassword("wrong", hash) {
		t.Error("错误密码不应校验通过")
	}
	if verifyPassword("password123", "malformed") {
		t.Error("格式非法的散列不应校验通过")
	}
}
