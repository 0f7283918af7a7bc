package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/response"
)

// 认证中间件测试
// JWT用测试密钥签发,黑名单走miniredis,不依赖外部服务

type authFixture struct {
	jwtMgr   *jwt.Manager
	sessions *redis.SessionStore
	router   *gin.Engine
}

// authResponse 统一响应结构(与pkg/response对应)
type authResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	jwtMgr := jwt.NewManager("test-secret", 2*time.Hour, 168*time.Hour)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := redis.NewSessionStore(client)

	m := NewAuthMiddleware(jwtMgr, sessions)

	r := gin.New()
	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		response.Success(c, gin.H{
			"user_id": GetUserID(c),
			"email":   GetEmail(c),
			"name":    GetName(c),
		})
	})
	r.GET("/optional", m.OptionalAuth(), func(c *gin.Context) {
		response.Success(c, gin.H{"user_id": GetUserID(c)})
	})

	return &authFixture{jwtMgr: jwtMgr, sessions: sessions, router: r}
}

// do 发起请求并解析统一响应
func (f *authFixture) do(t *testing.T, path, authHeader string) *authResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "统一响应始终返回HTTP 200,业务码在body里")

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "解析响应失败: %s", w.Body.String())
	return &resp
}

func (f *authFixture) mustToken(t *testing.T, userID uint) string {
	t.Helper()

	pair, err := f.jwtMgr.GenerateToken(userID, "zhangsan@bookshop.com", "张三")
	require.NoError(t, err, "签发测试Token失败")
	return pair.AccessToken
}

func TestRequireAuth(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("缺少Authorization头", func(t *testing.T) {
		resp := f.do(t, "/protected", "")
		assert.Equal(t, 40100, resp.Code, "未携带Token应该返回未登录")
	})

	t.Run("非Bearer格式", func(t *testing.T) {
		resp := f.do(t, "/protected", "Basic dXNlcjpwYXNz")
		assert.Equal(t, 40101, resp.Code, "非Bearer头应该返回Token格式错误")
	})

	t.Run("非法Token", func(t *testing.T) {
		resp := f.do(t, "/protected", "Bearer not-a-jwt")
		assert.Equal(t, 40101, resp.Code, "无法解析的Token应该返回无效Token")
	})

	t.Run("过期Token", func(t *testing.T) {
		expired := jwt.NewManager("test-secret", -time.Minute, 168*time.Hour)
		pair, err := expired.GenerateToken(1, "a@b.com", "测试")
		require.NoError(t, err)

		resp := f.do(t, "/protected", "Bearer "+pair.AccessToken)
		assert.Equal(t, 40102, resp.Code, "过期Token应该返回Token过期")
	})

	t.Run("黑名单Token", func(t *testing.T) {
		token := f.mustToken(t, 1)
		require.NoError(t, f.sessions.AddToBlacklist(context.Background(), token, time.Hour))

		resp := f.do(t, "/protected", "Bearer "+token)
		assert.Equal(t, 40102, resp.Code, "已登出的Token应该被黑名单拦截")
		assert.Contains(t, resp.Message, "已失效")
	})

	t.Run("合法Token注入用户信息", func(t *testing.T) {
		token := f.mustToken(t, 42)

		resp := f.do(t, "/protected", "Bearer "+token)
		require.Equal(t, 0, resp.Code, "合法Token应该放行: %s", resp.Message)
		assert.EqualValues(t, 42, resp.Data["user_id"])
		assert.Equal(t, "zhangsan@bookshop.com", resp.Data["email"])
		assert.Equal(t, "张三", resp.Data["name"])
	})
}

func TestOptionalAuth(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("无Token按匿名放行", func(t *testing.T) {
		resp := f.do(t, "/optional", "")
		require.Equal(t, 0, resp.Code)
		assert.EqualValues(t, 0, resp.Data["user_id"], "匿名请求user_id应该为0")
	})

	t.Run("合法Token注入用户信息", func(t *testing.T) {
		token := f.mustToken(t, 7)

		resp := f.do(t, "/optional", "Bearer "+token)
		require.Equal(t, 0, resp.Code)
		assert.EqualValues(t, 7, resp.Data["user_id"])
	})

	t.Run("非法Token按匿名放行", func(t *testing.T) {
		resp := f.do(t, "/optional", "Bearer garbage")
		require.Equal(t, 0, resp.Code, "可选认证遇到坏Token不拦截")
		assert.EqualValues(t, 0, resp.Data["user_id"])
	})
}
