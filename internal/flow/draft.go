package flow

// Package flow 实现访客登记向导的核心状态机：
// 分步草稿采集、逐字段校验、接待人解析、三级草稿同步与审批门控交接。
//
// 一个流程实例（flow instance）对应一份"活"草稿，贯穿三级存储：
//   1. 当前步骤的本地视图（Handler 返回给前端的 Session 快照）
//   2. 流程期共享草稿（DraftStore，步骤切换与同页刷新后仍在）
//   3. 一次性交接快照（HandoffStore，跨页传递草稿，避免超长 URL）
// 三者始终以 Session.Draft 为唯一事实来源，字段变更直写二级存储。

// ── 步骤状态机 ──

const (
	StepIdentity = 0 // 第一步：身份与到访信息
	StepHost     = 1 // 第二步：接待人解析
	StepAssets   = 2 // 第三步：携带物品与随行人员
	StepHandoff  = 3 // 终态：草稿已交接给预览页，流程退出向导
)

// Draft 登记中的访客草稿
// 字段形状与落库后的 Visitor 对齐；Date/Time 在草稿期以字符串保存
// （Date: 2006-01-02, Time: 15:04），落库时才解析
type Draft struct {
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	Gender         string `json:"gender"`
	IDType         string `json:"id_type"` // Aadhaar | PAN
	IDNumber       string `json:"id_number"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ComingFrom     string `json:"coming_from"` // company | location
	CompanyName    string `json:"company_name"`
	Location       string `json:"location"`
	PurposeOfVisit string `json:"purpose_of_visit"`
	ImgURL         string `json:"img_url"`
	Status         string `json:"status"` // 向导只产出 PENDING
	IsApprovalReq  *bool  `json:"is_approval_req,omitempty"`

	Host   HostBinding `json:"host"`
	Assets []AssetItem `json:"assets"`
	Guests []GuestItem `json:"guests"`
}

// HostBinding 已解析的接待人绑定
// 初始化后恒非零值；三种来源（目录选择 / 手动录入 / 默认提交人）
// 互斥，且不落判别标记 —— 下游按结构形状推断来源
type HostBinding struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phone_number"`
	ProfileImageURL string `json:"profile_image_url"`
}

// AssetItem 草稿中的携带物品
// TempID 是会话内唯一的本地关联 ID：父草稿尚无持久化主键，
// 物品照片先上传到临时存储时靠它对齐
type AssetItem struct {
	AssetName    string `json:"asset_name"`
	SerialNumber string `json:"serial_number,omitempty"`
	AssetType    string `json:"asset_type"` // Personal | Company
	ImgURL       string `json:"img_url,omitempty"`
	TempID       string `json:"temp_id"`
	PendingFile  string `json:"pending_file,omitempty"` // 已捕获未上传的文件引用
	Uploading    bool   `json:"uploading,omitempty"`    // 上传中标记，阻止同一物品并发二次上传
}

// GuestItem 草稿中的随行人员
type GuestItem struct {
	GuestName   string `json:"guest_name"`
	ImgURL      string `json:"img_url,omitempty"`
	TempID      string `json:"temp_id"`
	PendingFile string `json:"pending_file,omitempty"`
	Uploading   bool   `json:"uploading,omitempty"`
}

// Submitter 当前登录的提交人（默认接待人来源）
type Submitter struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// DirectoryEntry 员工目录条目（外部协作方，每流程拉取一次）
type DirectoryEntry struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	ProfileImageURL string `json:"profile_image_url"`
}

// State 向导状态（由向导独占持有）
type State struct {
	StepIndex   int               `json:"step_index"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Submitting  bool              `json:"submitting"`
}

// Session 一个流程实例：草稿 + 向导状态 + 流程期缓存
// 整体 JSON 序列化后写入二级存储
type Session struct {
	FlowID     string           `json:"flow_id"`
	Submitter  Submitter        `json:"submitter"`
	Draft      Draft            `json:"draft"`
	State      State            `json:"state"`
	Directory  []DirectoryEntry `json:"directory,omitempty"`
	EditID     string           `json:"edit_id,omitempty"`     // 编辑模式的来源记录 ID
	EditSeeded bool             `json:"edit_seeded,omitempty"` // 编辑加载至多执行一次
}

// NewSession 创建全新流程实例（空草稿 + 默认提交人接待绑定）
func NewSession(flowID string, sub Submitter) *Session {
	s := &Session{
		FlowID:    flowID,
		Submitter: sub,
		Draft: Draft{
			Status: "PENDING",
		},
		State: State{StepIndex: StepIdentity},
	}
	s.Draft.Host = DefaultHost(sub)
	return s
}
