// Package storage 提供删除队列的持久化
//
// 队列在浏览器多次导航之间以及进程重启之后都必须保留,因此状态全部外置到
// 键值存储中。每个键的值都是一段JSON文档,与用户脚本中GM_setValue保存的
// 记录形状一致。
//
// 后端:
//   - file: 单个JSON文件,读写时持有flock文件锁(默认)
//   - sqlite: modernc.org/sqlite 中的kv表
//   - memory: 进程内map,用于测试
package storage

import (
	"context"
	"fmt"
)

// Backend 键值存储后端
// 值必须是合法的JSON文档
type Backend interface {
	// Get 读取键值,键不存在时ok为false
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put 写入键值(最后写入者生效)
	Put(ctx context.Context, key string, value []byte) error

	// Delete 删除键,键不存在时不报错
	Delete(ctx context.Context, key string) error

	// Close 释放资源
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open 根据名称打开存储后端
func Open(backend string, stateDir string) (Backend, error) {
	switch backend {
	case "", BackendFile:
		return OpenFile(stateDir)
	case BackendSQLite:
		return OpenSQLite(stateDir)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("未知的存储后端: %s (有效值: file, sqlite, memory)", backend)
	}
}
