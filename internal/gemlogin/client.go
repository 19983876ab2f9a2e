// Package gemlogin 封装 GemLogin 自动化服务的 HTTP API。
// 所有操作统一返回 Result：传输失败、非 2xx、响应体解析失败一律折叠成
// success=false + message + error_code，绝不向调用方抛 error——
// 调度器只根据 success 做控制流判断。
package gemlogin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Result GemLogin 的统一响应外壳
type Result struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRunning bool            `json:"is_running,omitempty"` // 仅 check-status 填充
	ErrorCode int             `json:"error_code,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL 返回服务根地址，排障用
func (c *Client) BaseURL() string {
	return c.baseURL
}

// failure 把传输层错误折叠成统一的失败 Result
func failure(err error, code int) Result {
	return Result{
		Success:   false,
		Message:   "API request failed: " + err.Error(),
		ErrorCode: code,
	}
}

func (c *Client) do(req *http.Request) Result {
	resp, err := c.http.Do(req)
	if err != nil {
		return failure(err, 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(err, resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		// 非 JSON 响应同样算失败，带上状态码
		return failure(fmt.Errorf("decode response: %w", err), resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Success = false
		res.ErrorCode = resp.StatusCode
		if res.Message == "" {
			res.Message = "API request failed: " + resp.Status
		}
	}
	return res
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) Result {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return failure(err, 0)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) Result {
	b, err := json.Marshal(payload)
	if err != nil {
		return failure(err, 0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(b))
	if err != nil {
		return failure(err, 0)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Ping 探活。优先打 /api/ping；部分部署没有这个端点，
// 退化成拉一条档案的最小无害读。
func (c *Client) Ping(ctx context.Context) Result {
	res := c.get(ctx, "/api/ping", nil)
	if res.Success {
		if res.Message == "" {
			res.Message = "API is online"
		}
		return res
	}
	q := url.Values{}
	q.Set("page", "1")
	q.Set("per_page", "1")
	fallback := c.get(ctx, "/api/profiles", q)
	if fallback.Success {
		fallback.Message = "API is online"
	}
	return fallback
}
