package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	maxIdleConns        = 10
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// New создает исходящий HTTP-клиент с фиксированным таймаутом.
//
// insecureSkipVerify выключает проверку TLS-сертификата. Нужен только для
// внутреннего API назначения, у которого в проде сломана цепочка сертификатов.
// Осознанный операционный риск, не использовать для других клиентов.
func New(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}

	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // см. комментарий выше
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
