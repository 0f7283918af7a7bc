package user

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

// 员工账号用例测试
// 数据库用内存SQLite,会话存储用miniredis,不依赖外部服务

// newTestDB 打开内存SQLite并迁移表结构
// 内存库每个连接各自独立,连接池限制为1保证所有操作落在同一个库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "打开内存数据库失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.AutoMigrate(db), "迁移表结构失败")
	return db
}

type userFixture struct {
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	jwtMgr   *jwt.Manager
	sessions *redis.SessionStore
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	db := newTestDB(t)
	userService := user.NewService(mysql.NewUserRepository(db))
	jwtMgr := jwt.NewManager("test-secret", 2*time.Hour, 168*time.Hour)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := redis.NewSessionStore(client)

	return &userFixture{
		register: NewRegisterUseCase(userService),
		login:    NewLoginUseCase(userService, jwtMgr, sessions),
		logout:   NewLogoutUseCase(sessions, jwtMgr),
		refresh:  NewRefreshTokenUseCase(jwtMgr),
		jwtMgr:   jwtMgr,
		sessions: sessions,
	}
}

// mustRegister 注册一个员工账号,失败直接终止测试
func (f *userFixture) mustRegister(t *testing.T, name, email, password string) *RegisterResponse {
	t.Helper()

	resp, err := f.register.Execute(context.Background(), RegisterRequest{
		Name: name, Email: email, Password: password,
	})
	require.NoError(t, err, "注册失败: %s", email)
	return resp
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	t.Run("正常注册", func(t *testing.T) {
		resp, err := f.register.Execute(ctx, RegisterRequest{
			Name:     "张三",
			Email:    "zhangsan@bookshop.com",
			Password: "pass1234",
		})
		require.NoError(t, err, "注册应该成功")

		assert.NotZero(t, resp.ID, "用户ID应该大于0")
		assert.Equal(t, "张三", resp.Name)
		assert.Equal(t, "zhangsan@bookshop.com", resp.Email)
	})

	t.Run("邮箱重复应失败", func(t *testing.T) {
		f.mustRegister(t, "李四", "lisi@bookshop.com", "pass1234")

		_, err := f.register.Execute(ctx, RegisterRequest{
			Name: "李四二号", Email: "lisi@bookshop.com", Password: "pass5678",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEmailDuplicate),
			"重复邮箱应该返回冲突错误, 实际为 %v", err)
	})

	t.Run("邮箱格式非法应失败", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{
			Name: "王五", Email: "not-an-email", Password: "pass1234",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"非法邮箱应该返回参数错误, 实际为 %v", err)
	})

	t.Run("密码太短应失败", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{
			Name: "王五", Email: "wangwu@bookshop.com", Password: "ab1",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeWeakPassword),
			"过短密码应该返回强度不足错误, 实际为 %v", err)
	})

	t.Run("密码缺少数字应失败", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{
			Name: "王五", Email: "wangwu@bookshop.com", Password: "abcdefgh",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeWeakPassword),
			"纯字母密码应该返回强度不足错误, 实际为 %v", err)
	})

	t.Run("姓名过短应失败", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{
			Name: "A", Email: "short@bookshop.com", Password: "pass1234",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams),
			"过短姓名应该返回参数错误, 实际为 %v", err)
	})
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered := f.mustRegister(t, "张三", "zhangsan@bookshop.com", "pass1234")

	t.Run("正常登录", func(t *testing.T) {
		resp, err := f.login.Execute(ctx, LoginRequest{
			Email:    "zhangsan@bookshop.com",
			Password: "pass1234",
			IP:       "127.0.0.1",
		})
		require.NoError(t, err, "登录应该成功")

		assert.Equal(t, registered.ID, resp.User.ID)
		assert.Equal(t, "张三", resp.User.Name)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64((2 * time.Hour).Seconds()), resp.ExpiresIn)

		// Access Token可解析且携带用户信息
		claims, err := f.jwtMgr.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
		assert.Equal(t, "zhangsan@bookshop.com", claims.Email)

		// 会话已落到Redis
		session, err := f.sessions.GetSession(ctx, registered.ID)
		require.NoError(t, err, "登录后应该能读到会话")
		assert.Equal(t, "zhangsan@bookshop.com", session["email"])
		assert.Equal(t, "127.0.0.1", session["ip"])
	})

	t.Run("密码错误应失败", func(t *testing.T) {
		_, err := f.login.Execute(ctx, LoginRequest{
			Email:    "zhangsan@bookshop.com",
			Password: "wrong9999",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidPassword),
			"密码错误应该返回密码错误码, 实际为 %v", err)
	})

	t.Run("邮箱不存在应失败", func(t *testing.T) {
		_, err := f.login.Execute(ctx, LoginRequest{
			Email:    "nobody@bookshop.com",
			Password: "pass1234",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUserNotFound),
			"邮箱不存在应该返回用户不存在错误, 实际为 %v", err)
	})
}

func TestLogout(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered := f.mustRegister(t, "张三", "zhangsan@bookshop.com", "pass1234")
	login, err := f.login.Execute(ctx, LoginRequest{
		Email: "zhangsan@bookshop.com", Password: "pass1234",
	})
	require.NoError(t, err)

	require.NoError(t, f.logout.Execute(ctx, registered.ID, login.AccessToken), "登出应该成功")

	// 会话已删除
	_, err = f.sessions.GetSession(ctx, registered.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnauthorized),
		"登出后会话应该不存在, 实际为 %v", err)

	// Access Token已进入黑名单
	blacklisted, err := f.sessions.IsInBlacklist(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted, "登出后Access Token应该在黑名单中")
}

func TestRefreshToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered := f.mustRegister(t, "张三", "zhangsan@bookshop.com", "pass1234")
	login, err := f.login.Execute(ctx, LoginRequest{
		Email: "zhangsan@bookshop.com", Password: "pass1234",
	})
	require.NoError(t, err)

	t.Run("正常刷新", func(t *testing.T) {
		resp, err := f.refresh.Execute(ctx, login.RefreshToken)
		require.NoError(t, err, "刷新应该成功")

		claims, err := f.jwtMgr.ParseToken(resp.AccessToken)
		require.NoError(t, err, "新Access Token应该可解析")
		assert.Equal(t, registered.ID, claims.UserID)
		assert.Equal(t, int64((2 * time.Hour).Seconds()), resp.ExpiresIn)
	})

	t.Run("非法Refresh Token应失败", func(t *testing.T) {
		_, err := f.refresh.Execute(ctx, "not-a-token")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidToken),
			"非法Token应该返回无效Token错误, 实际为 %v", err)
	})
}
