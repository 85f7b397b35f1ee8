package registry

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB     *gorm.DB
	SQLX   *sqlx.DB // 报表类只读查询
	Redis  *redis.Client
	Router *gin.Engine
}

// Module 业务模块接口，各模块在 init() 中自注册
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级，数字越小越先初始化
	// user 模块提供认证中间件依赖的行为，需要早于业务模块
	Priority() int
}

var moduleRegistry = make(map[string]Module)

// Register 注册模块，后注册的同名模块覆盖先注册的
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// InitModules 按优先级依次初始化所有已注册模块
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Priority() < modules[j].Priority()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return fmt.Errorf("init module %s: %w", module.Name(), err)
		}
	}
	return nil
}
