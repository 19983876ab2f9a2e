package gemlogin

import (
	"context"
	"encoding/json"
	"strconv"

	"GemScheduler/internal/domain"
)

// RemoteScript GemLogin 返回的脚本条目（镜像同步的输入）
type RemoteScript struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  []domain.ScriptParameter `json:"parameters"`
}

// GetScripts 拉取全部脚本
func (c *Client) GetScripts(ctx context.Context) Result {
	return c.get(ctx, "/api/scripts", nil)
}

// 批量脚本调用的请求体。远端契约要求 profileIds 是字符串数组，
// 域模型里档案 ID 是整数，只在这一序列化边界转成字符串。
type executeScriptRequest struct {
	ProfileIDs   []string       `json:"profileIds"`
	CloseBrowser bool           `json:"closeBrowser"`
	Parameters   map[string]any `json:"parameters"`
}

func profileIDStrings(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.Itoa(id))
	}
	return out
}

// ExecuteScript 在一组档案上执行脚本
func (c *Client) ExecuteScript(ctx context.Context, scriptID string, profileIDs []int, parameters map[string]any, closeBrowser bool) Result {
	if parameters == nil {
		parameters = map[string]any{}
	}
	return c.post(ctx, "/api/scripts/execute/"+scriptID, executeScriptRequest{
		ProfileIDs:   profileIDStrings(profileIDs),
		CloseBrowser: closeBrowser,
		Parameters:   parameters,
	})
}

// KillExecuteScript 终止正在执行的脚本
func (c *Client) KillExecuteScript(ctx context.Context, scriptID string, profileIDs []int, closeBrowser bool) Result {
	body := struct {
		ProfileIDs   []string `json:"profileIds"`
		CloseBrowser bool     `json:"closeBrowser"`
	}{
		ProfileIDs:   profileIDStrings(profileIDs),
		CloseBrowser: closeBrowser,
	}
	return c.post(ctx, "/api/scripts/kill-execute/"+scriptID, body)
}

// CheckScriptStatus 查询脚本在某个档案上是否还在跑，结果看 Result.IsRunning
func (c *Client) CheckScriptStatus(ctx context.Context, scriptID string, profileID int) Result {
	body := struct {
		ProfileID string `json:"profileId"`
	}{ProfileID: strconv.Itoa(profileID)}
	return c.post(ctx, "/api/scripts/check-status/"+scriptID, body)
}

// DecodeScripts 解出列表响应里的脚本数组
func DecodeScripts(res Result) ([]RemoteScript, error) {
	var scripts []RemoteScript
	if len(res.Data) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(res.Data, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}
