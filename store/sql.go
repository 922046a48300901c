package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/metrics"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLStore 从关系库读取目录、交互事件与观看历史：
//
//	videos(video_id, title, description, label_names, category)
//	user_behaviors(user_id, video_id, behavior_type)
//	user_video_watch_histories(user_id, video_id)
//
// 支持 sqlite3 与 postgres 两种驱动；NULL 文本字段按空字符串处理。
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQL 打开数据库并 Ping 一次。
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			fmt.Sprintf("store: unsupported sql driver %q", driver))
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: open database", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: ping database", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// NewSQLStore 包装已有连接。
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Name() string { return "sql." + s.driver }

// DB 返回底层连接。
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }

// Migrate 创建三张源表（已存在时跳过）。
func (s *SQLStore) Migrate(ctx context.Context) error {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idCol = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			video_id    BIGINT PRIMARY KEY,
			title       TEXT DEFAULT '',
			description TEXT DEFAULT '',
			label_names TEXT DEFAULT '',
			category    TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS user_behaviors (
			id            ` + idCol + `,
			user_id       BIGINT NOT NULL,
			video_id      BIGINT NOT NULL,
			behavior_type TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_behaviors_user ON user_behaviors(user_id)`,
		`CREATE TABLE IF NOT EXISTS user_video_watch_histories (
			id       ` + idCol + `,
			user_id  BIGINT NOT NULL,
			video_id BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_histories_user ON user_video_watch_histories(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// LoadCatalog 按 video_id 升序读取全部视频，顺序稳定。
func (s *SQLStore) LoadCatalog(ctx context.Context) (videos []core.Video, err error) {
	defer s.observe("catalog", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, title, description, label_names, category FROM videos ORDER BY video_id`)
	if err != nil {
		return nil, s.unavailable("query videos", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v                                        core.Video
			title, description, labelNames, category sql.NullString
		)
		if err := rows.Scan(&v.ItemID, &title, &description, &labelNames, &category); err != nil {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "store: scan video", err)
		}
		v.Title = title.String
		v.Description = description.String
		v.LabelNames = labelNames.String
		v.Category = category.String
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate videos", err)
	}
	return videos, nil
}

// LoadBehaviors 读取用户的交互事件，只返回四种受支持的类型。
func (s *SQLStore) LoadBehaviors(ctx context.Context, userID int64) (behaviors []core.Behavior, err error) {
	defer s.observe("behaviors", time.Now(), &err)

	kinds := make([]any, 0, len(core.BehaviorTypes)+1)
	kinds = append(kinds, userID)
	for _, t := range core.BehaviorTypes {
		kinds = append(kinds, string(t))
	}
	query := fmt.Sprintf(
		`SELECT video_id, behavior_type FROM user_behaviors WHERE user_id = %s AND behavior_type IN (%s)`,
		s.placeholder(1), s.placeholders(2, len(core.BehaviorTypes)))

	rows, err := s.db.QueryContext(ctx, query, kinds...)
	if err != nil {
		return nil, s.unavailable("query user_behaviors", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b    core.Behavior
			kind string
		)
		if err := rows.Scan(&b.ItemID, &kind); err != nil {
			return nil, core.WrapDomainError(core.ModuleBehavior, core.ErrorCodeInvalidInput, "store: scan behavior", err)
		}
		b.Type = core.BehaviorType(kind)
		behaviors = append(behaviors, b)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate user_behaviors", err)
	}
	return behaviors, nil
}

// LoadWatchHistory 读取用户已观看的视频 ID。
func (s *SQLStore) LoadWatchHistory(ctx context.Context, userID int64) (ids []int64, err error) {
	defer s.observe("watch_history", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id FROM user_video_watch_histories WHERE user_id = `+s.placeholder(1), userID)
	if err != nil {
		return nil, s.unavailable("query user_video_watch_histories", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, core.WrapDomainError(core.ModuleBehavior, core.ErrorCodeInvalidInput, "store: scan watch history", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable("iterate user_video_watch_histories", err)
	}
	return ids, nil
}

// InsertVideo 写入或覆盖一条视频记录。
func (s *SQLStore) InsertVideo(ctx context.Context, v core.Video) error {
	query := fmt.Sprintf(
		`INSERT INTO videos (video_id, title, description, label_names, category) VALUES (%s)
		 ON CONFLICT (video_id) DO UPDATE SET title = excluded.title, description = excluded.description,
		 label_names = excluded.label_names, category = excluded.category`,
		s.placeholders(1, 5))
	_, err := s.db.ExecContext(ctx, query, v.ItemID, v.Title, v.Description, v.LabelNames, v.Category)
	return err
}

// InsertBehavior 追加一条交互事件。
func (s *SQLStore) InsertBehavior(ctx context.Context, userID int64, b core.Behavior) error {
	query := fmt.Sprintf(`INSERT INTO user_behaviors (user_id, video_id, behavior_type) VALUES (%s)`, s.placeholders(1, 3))
	_, err := s.db.ExecContext(ctx, query, userID, b.ItemID, string(b.Type))
	return err
}

// InsertWatch 追加一条观看记录。
func (s *SQLStore) InsertWatch(ctx context.Context, userID, videoID int64) error {
	query := fmt.Sprintf(`INSERT INTO user_video_watch_histories (user_id, video_id) VALUES (%s)`, s.placeholders(1, 2))
	_, err := s.db.ExecContext(ctx, query, userID, videoID)
	return err
}

// placeholder 返回第 n 个参数占位符：sqlite 为 ?，postgres 为 $n。
func (s *SQLStore) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// placeholders 返回从 start 开始的 count 个占位符，逗号分隔。
func (s *SQLStore) placeholders(start, count int) string {
	ps := make([]string, count)
	for i := range ps {
		ps[i] = s.placeholder(start + i)
	}
	return strings.Join(ps, ", ")
}

func (s *SQLStore) unavailable(op string, err error) error {
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: "+op, err)
}

func (s *SQLStore) observe(op string, start time.Time, err *error) {
	metrics.RecordSourceQuery(s.Name(), op, time.Since(start), *err)
}

var _ core.DataSource = (*SQLStore)(nil)
