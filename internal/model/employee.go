package model

// Employee 员工表 — 对应 employees
// 既是访客可选择的接待人目录条目，也是系统登录账号
type Employee struct {
	EmployeeID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email           string `gorm:"type:varchar(255);not null"                     json:"email"`
	PhoneNumber     string `gorm:"type:varchar(20);not null;default:''"           json:"phone_number"`
	ProfileImageURL string `gorm:"type:varchar(500);not null;default:''"          json:"profile_image_url"`
	PasswordHash    string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role            string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // admin | security | employee
	SoftDeleteModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
