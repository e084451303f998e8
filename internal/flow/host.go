package flow

import "strings"

// ── 接待人解析子系统 ──
//
// 三种来源互斥，任意时刻只有一种生效：
//   - 目录选择：从员工目录选中一条，绑定完整员工信息
//   - 手动录入：仅姓名；userId 取提交人自身，电话/邮箱强制留空
//     （空电话+空邮箱正是下游识别"手动录入"的结构判别依据）
//   - 默认提交人：未做任何选择时的兜底，镜像当前登录用户，
//     电话/邮箱留空以免把提交人自己的联系方式当作接待人数据展示

// DefaultHost 默认提交人绑定
func DefaultHost(sub Submitter) HostBinding {
	return HostBinding{
		UserID:          sub.UserID,
		Name:            sub.Name,
		ProfileImageURL: sub.ProfileImageURL,
	}
}

// IsManualHost 结构形状判别"手动录入"：
// 非空姓名 + 空电话 + 空邮箱 + 姓名不同于提交人
// 注意这是启发式而非存储标记（无电话无邮箱的真实员工会被误判）
func IsManualHost(h HostBinding, sub Submitter) bool {
	return h.Name != "" && h.PhoneNumber == "" && h.Email == "" && h.Name != sub.Name
}

// isDefaultHost 当前绑定是否为默认提交人形态
func isDefaultHost(h HostBinding, sub Submitter) bool {
	return h.UserID == sub.UserID && h.Name == sub.Name && h.PhoneNumber == "" && h.Email == ""
}

// FilterDirectory 按搜索词过滤员工目录：
// 姓名任一空白分隔词的大小写不敏感前缀匹配；空搜索词返回全部
func FilterDirectory(entries []DirectoryEntry, term string) []DirectoryEntry {
	term = strings.TrimSpace(term)
	if term == "" {
		return entries
	}
	lower := strings.ToLower(term)

	var matched []DirectoryEntry
	for _, e := range entries {
		for _, token := range strings.Fields(e.Name) {
			if strings.HasPrefix(strings.ToLower(token), lower) {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}

// SelectDirectoryHost 选中目录条目并绑定
// 再次选中同一条目是开关语义：解除绑定并回落到默认提交人
func (s *Session) SelectDirectoryHost(e DirectoryEntry) {
	cur := s.Draft.Host
	if cur.UserID == e.UserID && cur.Email == e.Email && !IsManualHost(cur, s.Submitter) {
		s.Draft.Host = DefaultHost(s.Submitter)
		return
	}
	s.Draft.Host = HostBinding{
		UserID:          e.UserID,
		Email:           e.Email,
		Name:            e.Name,
		PhoneNumber:     e.PhoneNumber,
		ProfileImageURL: e.ProfileImageURL,
	}
}

// SubmitManualHost 提交手动录入的接待人姓名
// userId 取提交人自身；电话/邮箱强制留空（判别依据，见 IsManualHost）
func (s *Session) SubmitManualHost(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	s.Draft.Host = HostBinding{
		UserID: s.Submitter.UserID,
		Name:   name,
	}
	return true
}

// ResetHost 取消手动录入 / 重新进入目录模式时回落到默认提交人
func (s *Session) ResetHost() {
	s.Draft.Host = DefaultHost(s.Submitter)
}

// EnrichHost 目录回填：绑定的接待人与目录同时可用时，
// 按 userId 匹配目录条目，补齐缺失的电话 / 邮箱 / 头像。
// 回填只填空缺：
//   - 绝不覆盖已有姓名
//   - 手动录入绑定整体跳过（回填电话/邮箱会破坏其判别形状）
//   - 默认提交人绑定整体跳过（联系方式按设计强制留空）
func (s *Session) EnrichHost() {
	if len(s.Directory) == 0 {
		return
	}
	h := &s.Draft.Host
	if IsManualHost(*h, s.Submitter) || isDefaultHost(*h, s.Submitter) {
		return
	}
	for _, e := range s.Directory {
		if e.UserID != h.UserID {
			continue
		}
		if h.PhoneNumber == "" {
			h.PhoneNumber = e.PhoneNumber
		}
		if h.Email == "" {
			h.Email = e.Email
		}
		if h.ProfileImageURL == "" {
			h.ProfileImageURL = e.ProfileImageURL
		}
		return
	}
}
