package model

// UserStatus 用户状态枚举
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"    // 正常使用
	UserStatusSuspended UserStatus = "suspended" // 已停用，调度不再为其排队
)

// User 用户模型
type User struct {
	BaseModel
	PublicID     int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string     `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(128);not null" json:"-"` // bcrypt 哈希，不对外暴露
	Username     string     `gorm:"uniqueIndex;type:varchar(32);not null" json:"username"`
	FullName     string     `gorm:"type:varchar(64);not null;default:''" json:"full_name"`
	Bio          string     `gorm:"type:varchar(255);not null;default:''" json:"bio"`
	PhotoURL     string     `gorm:"type:varchar(512);not null;default:''" json:"photo_url"`
	FavoriteTea  string     `gorm:"type:varchar(64);not null;default:''" json:"favorite_tea"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_users_status" json:"status"`

	// 累计统计，随罚款/捐赠结算更新
	TotalDonatedPence int64 `gorm:"not null;default:0" json:"total_donated_pence"`
	OffenseCount      int   `gorm:"not null;default:0" json:"offense_count"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
