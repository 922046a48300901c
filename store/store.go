// Package store 提供数据源与 KV 存储的实现，接口定义在 core 包。
//
//   - SQLStore：SQLite / PostgreSQL 上的 videos、user_behaviors、user_video_watch_histories 三张表
//   - KVSource：以 JSON 文档形式存放在任意 core.Store（Redis / 内存）中的目录与用户数据
//   - RedisStore、MemoryStore：core.Store 的实现
//
// 示例：
//
//	var src core.DataSource = store.NewKVSource(store.NewMemoryStore(), "vidrec")
package store
