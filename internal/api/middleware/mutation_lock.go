package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart-classroom/backend/pkg/response"
)

// Locker 互斥锁接口，由 pkg/redis.Client 实现
type Locker interface {
	TryLock(ctx context.Context, name, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name, token string) error
}

const (
	mutationLockName = "schedule:mutation"
	mutationLockTTL  = 30 * time.Second
)

// MutationLock 课表写操作（generate / clear / override）互斥中间件
// 同一时刻只允许一个写操作执行，后到者直接返回 409，不排队
// locker 为 nil 时退化为进程内互斥
func MutationLock(locker Locker, logger *zap.Logger) gin.HandlerFunc {
	var local sync.Mutex

	return func(c *gin.Context) {
		if locker == nil {
			if !local.TryLock() {
				rejectBusy(c)
				return
			}
			defer local.Unlock()
			c.Next()
			return
		}

		token := uuid.NewString()
		ok, err := locker.TryLock(c.Request.Context(), mutationLockName, token, mutationLockTTL)
		if err != nil {
			// Redis 出错时降级为进程内互斥
			logger.Warn("获取排课锁失败，降级为进程内互斥", zap.Error(err))
			if !local.TryLock() {
				rejectBusy(c)
				return
			}
			defer local.Unlock()
			c.Next()
			return
		}
		if !ok {
			rejectBusy(c)
			return
		}
		defer func() {
			if err := locker.Unlock(context.Background(), mutationLockName, token); err != nil {
				logger.Warn("释放排课锁失败", zap.Error(err))
			}
		}()

		c.Next()
	}
}

func rejectBusy(c *gin.Context) {
	response.Error(c, http.StatusConflict, 17100, "另一个排课操作正在进行，请稍后再试")
	c.Abort()
}
