package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Module 在公共分组（public）和鉴权分组（authed）上挂载自己的路由
type Module interface {
	Mount(public, authed *gin.RouterGroup)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 模块注册表，每个引擎一份
type Registry struct {
	mu   sync.RWMutex
	mods []Module
}

func (r *Registry) Register(mods ...Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, mods...)
}

// MountAll 按优先级挂载所有已注册模块
func (r *Registry) MountAll(public, authed *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]Module(nil), r.mods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
