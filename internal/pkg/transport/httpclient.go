// Package transport 提供调优过的 http.Client
package transport

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient 返回带基础传输调优的 http.Client
// timeout 为 0 表示整体不限时（完整调用路径可能包含长时间生成），
// 连接建立本身仍有独立超时兜底
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
