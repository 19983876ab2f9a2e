package domain

import "time"

// Profile 从 GemLogin 同步下来的浏览器身份档案（只读镜像，id 由远端分配）
type Profile struct {
	ID             int       `json:"id"`              // 远端分配的档案 ID，upsert 的主键
	Name           string    `json:"name"`            // 档案名称
	Proxy          string    `json:"proxy"`           // 代理描述
	BrowserType    string    `json:"browser_type"`    // 浏览器类型
	BrowserVersion string    `json:"browser_version"` // 浏览器版本
	GroupID        int       `json:"group_id"`        // 分组 ID
	Note           string    `json:"note"`            // 备注
	LastSynced     time.Time `json:"last_synced"`     // 上次同步时间
}
