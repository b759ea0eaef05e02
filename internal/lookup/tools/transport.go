package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/likexian/whois"
	"golang.org/x/net/proxy"

	"sslmon/internal/logger"
)

const (
	// DefaultTimeout bounds every network step.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every HTTP request.
	DefaultUserAgent = "sslmon/1.0.0"

	maxResponseBytes = 8 << 20
	whoisPort        = "43"
)

// Transport holds the primitives shared by the resolvers: a bounded HTTP GET
// and a line-oriented WHOIS query on port 43. The zero value is usable.
type Transport struct {
	HTTPClient *http.Client
	// Dialer is used for WHOIS connections. A nil Dialer dials directly.
	Dialer    proxy.Dialer
	Timeout   time.Duration
	UserAgent string
}

func (t Transport) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// httpClient returns the configured client, or a fresh one whose
// connection is closed after the request.
func (t Transport) httpClient() *http.Client {
	if t.HTTPClient != nil {
		return t.HTTPClient
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

func (t Transport) dialer() proxy.Dialer {
	if t.Dialer != nil {
		return t.Dialer
	}
	return &net.Dialer{Timeout: t.timeout()}
}

func (t Transport) userAgent() string {
	if t.UserAgent == "" {
		return DefaultUserAgent
	}
	return t.UserAgent
}

// Get fetches url and returns the response body. Non-2xx responses yield an
// *HTTPStatusError and an expired deadline yields a *TimeoutError.
func (t Transport) Get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent())
	req.Header.Set("Accept", "application/rdap+json, application/json")

	resp, err := t.httpClient().Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: "HTTP request", Target: url}
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: "HTTP request", Target: url}
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// QueryWHOIS sends query to host on port 43 and returns the reply with
// surrounding whitespace trimmed. Referrals are not followed.
func (t Transport) QueryWHOIS(ctx context.Context, query, host string) (string, error) {
	timeout := t.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		var r reply
		// The whois client sends every dotless query to whois.iana.org
		// regardless of the server argument.
		if strings.Contains(query, ".") {
			client := whois.NewClient().
				SetDialer(t.dialer()).
				SetTimeout(timeout).
				SetDisableStats(true).
				SetDisableReferral(true)
			r.text, r.err = client.Whois(query, host)
		} else {
			r.text, r.err = t.rawWHOIS(ctx, query, host, timeout)
		}
		done <- r
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Op: "WHOIS query", Target: host}
		}
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			if isNetTimeout(r.err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", &TimeoutError{Op: "WHOIS query", Target: host}
			}
			return "", fmt.Errorf("WHOIS query to %s failed: %w", host, r.err)
		}
		logger.Get().Debug("whois query complete",
			slog.String("query", query),
			slog.String("server", host),
			slog.Int("bytes", len(r.text)))
		return r.text, nil
	}
}

// rawWHOIS writes query to host:43 and reads until the server closes.
func (t Transport) rawWHOIS(ctx context.Context, query, host string, timeout time.Duration) (string, error) {
	conn, err := t.dialer().Dial("tcp", net.JoinHostPort(host, whoisPort))
	if err != nil {
		return "", fmt.Errorf("connect failed: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(query + "\r\n")); err != nil {
		return "", fmt.Errorf("send failed: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(conn, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read failed: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
