package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// 先计数再判断，INCR 和首次 PEXPIRE 在同一个脚本里完成，并发请求不会越过上限
var attemptScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// LoginLimiter 登录尝试计数：窗口内尝试次数超过上限即锁定，成功登录清零
type LoginLimiter struct {
	RDB    *redis.Client
	Max    int
	Window time.Duration
	Prefix string
}

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func New(rdb *redis.Client, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{RDB: rdb, Max: max, Window: window, Prefix: "login:fail:"}
}

func (l *LoginLimiter) key(k string) string { return l.Prefix + k }

// Attempt 占用一次尝试名额；返回 false 表示已锁定。第一次尝试开始计时窗口
func (l *LoginLimiter) Attempt(ctx context.Context, k string) (bool, error) {
	n, err := attemptScript.Run(ctx, l.RDB, []string{l.key(k)}, l.Window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(l.Max), nil
}

func (l *LoginLimiter) Reset(ctx context.Context, k string) error {
	return l.RDB.Del(ctx, l.key(k)).Err()
}
