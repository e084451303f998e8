package flow

import (
	"context"
	"errors"
)

// ── 草稿同步层存储接口 ──
//
// 二级存储（DraftStore）：流程期共享草稿，每次字段变更直写；
// 三级存储（HandoffStore）：一次性交接快照，Take 读取即删除，
// 同一快照的第二次 Take 必然取不到（恰好一次交接）。
// 具体实现见 internal/repository（Redis）与各包测试中的内存实现。

var (
	// ErrSessionNotFound 二级存储中无此流程会话
	ErrSessionNotFound = errors.New("流程会话不存在")
	// ErrHandoffEmpty 交接快照不存在或已被消费
	ErrHandoffEmpty = errors.New("交接快照不存在或已被消费")
)

// DraftStore 流程期共享草稿存储（二级）
type DraftStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, flowID string) (*Session, error)
	Delete(ctx context.Context, flowID string) error
}

// HandoffStore 一次性交接快照存储（三级）
type HandoffStore interface {
	Put(ctx context.Context, flowID string, d *Draft) error
	// Take 读取并删除快照；两步必须原子完成
	Take(ctx context.Context, flowID string) (*Draft, error)
	Delete(ctx context.Context, flowID string) error
}
