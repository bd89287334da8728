// Package store 提供 core.Store 的实现：MemoryStore（单机/测试）与 RedisStore（多实例共享）。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
//	var s core.Store = store.NewMemoryStore()
package store
