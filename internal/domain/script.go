package domain

import "time"

// Script 从 GemLogin 同步下来的自动化脚本（只读镜像，id 为远端的不透明字符串）
type Script struct {
	ID          string            `json:"id"`          // 远端脚本 ID
	Name        string            `json:"name"`        // 脚本名称
	Description string            `json:"description"` // 描述
	Parameters  []ScriptParameter `json:"parameters"`  // 参数元数据（有序）
	LastSynced  time.Time         `json:"last_synced"` // 上次同步时间
}

// ScriptParameter 脚本参数描述，defaultValue 在调度执行时原样下发
type ScriptParameter struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	DefaultValue any    `json:"defaultValue"`
	Required     bool   `json:"required"`
}

// DefaultParameters 把参数元数据折叠成 name -> defaultValue 的映射
func DefaultParameters(params []ScriptParameter) map[string]any {
	values := make(map[string]any, len(params))
	for _, p := range params {
		if p.Name == "" {
			continue
		}
		values[p.Name] = p.DefaultValue
	}
	return values
}
