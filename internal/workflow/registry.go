package workflow

import (
	"fmt"
	"net/http"
	"sync"
)

// Options 节点构造参数
type Options struct {
	// Endpoint 本服务的调用端点地址
	Endpoint string
	// Client 复用的 HTTP 客户端，nil 时节点自建
	Client *http.Client
}

// Factory 节点工厂
type Factory func(opts Options) Node

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register 按节点类型注册工厂，托管引擎启动时据此发现节点
func Register(nodeType string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[nodeType] = f
}

// New 按类型创建节点，未注册的类型返回错误
func New(nodeType string, opts Options) (Node, error) {
	registryMu.RLock()
	f, ok := registry[nodeType]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return f(opts), nil
}

// Types 已注册的节点类型列表
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
