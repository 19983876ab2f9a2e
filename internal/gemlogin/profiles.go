package gemlogin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// RemoteProfile GemLogin 返回的档案条目（镜像同步的输入）
type RemoteProfile struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	RawProxy       string `json:"raw_proxy"`
	BrowserType    string `json:"browser_type"`
	BrowserVersion string `json:"browser_version"`
	GroupID        int    `json:"group_id"`
	Note           string `json:"note"`
}

// GetProfiles 分页拉取档案列表；groupID 为 nil 表示不过滤
func (c *Client) GetProfiles(ctx context.Context, groupID *int, page, perPage, sort int, search string) Result {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("sort", strconv.Itoa(sort))
	if groupID != nil {
		q.Set("group_id", strconv.Itoa(*groupID))
	}
	if search != "" {
		q.Set("search", search)
	}
	return c.get(ctx, "/api/profiles", q)
}

// GetProfile 拉取单个档案详情
func (c *Client) GetProfile(ctx context.Context, id int) Result {
	return c.get(ctx, "/api/profile/"+strconv.Itoa(id), nil)
}

// StartProfile 请求服务端启动档案对应的浏览器实例。
// winPos 传空串表示交给服务端决定窗口位置。
func (c *Client) StartProfile(ctx context.Context, id int, startURL, winSize, winPos string) Result {
	q := url.Values{}
	q.Set("url", startURL)
	q.Set("win_size", winSize)
	if winPos != "" {
		q.Set("win_pos", winPos)
	}
	return c.get(ctx, "/api/profiles/start/"+strconv.Itoa(id), q)
}

// CloseProfile 请求关闭浏览器实例。对已关闭的档案调用也是安全的，
// 服务端返回什么就透传什么，调用方不应把它当成致命错误。
func (c *Client) CloseProfile(ctx context.Context, id int) Result {
	return c.get(ctx, "/api/profiles/close/"+strconv.Itoa(id), nil)
}

// ChangeFingerprint 批量随机化设备指纹，profileIds 逗号拼接进查询串
func (c *Client) ChangeFingerprint(ctx context.Context, ids []int) Result {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	q := url.Values{}
	q.Set("profileIds", strings.Join(parts, ","))
	return c.get(ctx, "/api/profiles/changeFingerprint", q)
}

// DecodeProfiles 解出列表响应里的档案数组
func DecodeProfiles(res Result) ([]RemoteProfile, error) {
	var profiles []RemoteProfile
	if len(res.Data) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(res.Data, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
