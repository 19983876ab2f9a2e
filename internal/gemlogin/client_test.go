package gemlogin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(h http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	return NewClient(srv.URL, 5*time.Second), srv
}

// execute 调用的请求体：profileIds 必须是字符串数组（远端契约）
func TestExecuteScriptSerializesProfileIDsAsStrings(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"success":true,"message":"started"}`))
	})
	defer srv.Close()

	res := client.ExecuteScript(context.Background(), "script-9", []int{101, 102}, map[string]any{"url": "https://x"}, true)
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if gotPath != "/api/scripts/execute/script-9" {
		t.Errorf("path = %s", gotPath)
	}
	want := []any{"101", "102"}
	if !reflect.DeepEqual(gotBody["profileIds"], want) {
		t.Errorf("profileIds = %#v, want %#v (strings, not numbers)", gotBody["profileIds"], want)
	}
	if gotBody["closeBrowser"] != true {
		t.Errorf("closeBrowser = %v, want true", gotBody["closeBrowser"])
	}
	if params, ok := gotBody["parameters"].(map[string]any); !ok || params["url"] != "https://x" {
		t.Errorf("parameters = %#v", gotBody["parameters"])
	}
}

func TestExecuteScriptNilParametersSendsEmptyObject(t *testing.T) {
	var gotBody map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success":true}`))
	})
	defer srv.Close()

	client.ExecuteScript(context.Background(), "s", []int{1}, nil, false)
	if _, ok := gotBody["parameters"].(map[string]any); !ok {
		t.Errorf("parameters = %#v, want {}", gotBody["parameters"])
	}
}

// 非 2xx 折叠成 success=false + error_code，不返回 error
func TestNon2xxMapsToFailureResult(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"profile is busy"}`))
	})
	defer srv.Close()

	res := client.CloseProfile(context.Background(), 7)
	if res.Success {
		t.Fatal("want success=false on 500")
	}
	if res.ErrorCode != http.StatusInternalServerError {
		t.Errorf("error_code = %d, want 500", res.ErrorCode)
	}
	if res.Message != "profile is busy" {
		t.Errorf("message = %q, want remote message preserved", res.Message)
	}
}

func TestTransportErrorMapsToFailureResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, time.Second)
	srv.Close() // 连接拒绝

	res := client.StartProfile(context.Background(), 1, "https://x", "1280,720", "")
	if res.Success {
		t.Fatal("want success=false on connection failure")
	}
	if !strings.HasPrefix(res.Message, "API request failed:") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestMalformedJSONMapsToFailureResult(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})
	defer srv.Close()

	res := client.GetScripts(context.Background())
	if res.Success {
		t.Fatal("want success=false on malformed body")
	}
	if res.ErrorCode != http.StatusOK {
		t.Errorf("error_code = %d, want 200 (status of the bad response)", res.ErrorCode)
	}
}

func TestChangeFingerprintJoinsIDs(t *testing.T) {
	var gotQuery string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("profileIds")
		w.Write([]byte(`{"success":true}`))
	})
	defer srv.Close()

	client.ChangeFingerprint(context.Background(), []int{3, 7, 9})
	if gotQuery != "3,7,9" {
		t.Errorf("profileIds = %q, want comma-joined", gotQuery)
	}
}

func TestCheckScriptStatusParsesIsRunning(t *testing.T) {
	var gotBody map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success":true,"is_running":true}`))
	})
	defer srv.Close()

	res := client.CheckScriptStatus(context.Background(), "s1", 42)
	if !res.Success || !res.IsRunning {
		t.Fatalf("result = %+v, want running", res)
	}
	// profileId 同样走字符串
	if gotBody["profileId"] != "42" {
		t.Errorf("profileId = %#v, want \"42\"", gotBody["profileId"])
	}
}

// /api/ping 不存在时退化成拉一条档案
func TestPingFallsBackToProfileRead(t *testing.T) {
	var paths []string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/ping" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"p"}]}`))
	})
	defer srv.Close()

	res := client.Ping(context.Background())
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if len(paths) != 2 || paths[1] != "/api/profiles" {
		t.Errorf("paths = %v, want ping then profiles fallback", paths)
	}
}

func TestDecodeProfiles(t *testing.T) {
	res := Result{
		Success: true,
		Data:    json.RawMessage(`[{"id":5,"name":"work","raw_proxy":"socks5://p:1080","browser_type":"chrome","browser_version":"120","group_id":2,"note":"n"}]`),
	}
	profiles, err := DecodeProfiles(res)
	if err != nil {
		t.Fatalf("DecodeProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != 5 || profiles[0].RawProxy != "socks5://p:1080" {
		t.Errorf("profiles = %+v", profiles)
	}
}

func TestStartProfileQuery(t *testing.T) {
	var got url.Values
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"success":true,"data":{"browser_pid":123}}`))
	})
	defer srv.Close()

	client.StartProfile(context.Background(), 9, "https://example.com", "1280,720", "0,0")
	if got.Get("url") != "https://example.com" || got.Get("win_size") != "1280,720" || got.Get("win_pos") != "0,0" {
		t.Errorf("query = %v", got)
	}
}
