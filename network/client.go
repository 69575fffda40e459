// Package network provides the HTTP client shared by every request to the content server.
package network

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/net/publicsuffix"
)

// SessionHeader carries the per-process session identifier.
const SessionHeader = "X-Session-ID"

// Session identifies this process to the server.
var Session = uuid.NewString()

// Jar keeps the server's session cookie. Cookies are persisted with SaveCookies
// so statistics kept by the server survive restarts.
var Jar = lo.Must(cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}))

// Client is shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: &transport{base: newTransport()},
	Jar:       Jar,
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// transport stamps identifying headers on outgoing requests.
type transport struct {
	base http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	req.Header.Set(SessionHeader, Session)
	return t.base.RoundTrip(req)
}

// SetTimeout changes the overall request timeout. Non-positive values are ignored.
func SetTimeout(d time.Duration) {
	if d > 0 {
		Client.Timeout = d
	}
}

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

var cookiesMu sync.Mutex

// LoadCookies restores cookies saved for base into the jar.
func LoadCookies(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return err
	}

	cookiesMu.Lock()
	defer cookiesMu.Unlock()

	saved, err := readCookies()
	if err != nil {
		return err
	}

	cookies := make([]*http.Cookie, 0, len(saved[u.Host]))
	for _, c := range saved[u.Host] {
		if !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}

	Jar.SetCookies(u, cookies)
	log.Debugf("restored %d cookies for %s", len(cookies), u.Host)
	return nil
}

// SaveCookies writes the jar's cookies for base to disk.
func SaveCookies(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return err
	}

	cookiesMu.Lock()
	defer cookiesMu.Unlock()

	saved, err := readCookies()
	if err != nil {
		return err
	}

	var cookies []savedCookie
	for _, c := range Jar.Cookies(u) {
		cookies = append(cookies, savedCookie{Name: c.Name, Value: c.Value, Path: "/"})
	}

	if len(cookies) == 0 {
		return nil
	}
	saved[u.Host] = cookies

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}

	return filesystem.WriteAtomic(where.Cookies(), data)
}

func readCookies() (map[string][]savedCookie, error) {
	saved := make(map[string][]savedCookie)

	data, err := afero.ReadFile(filesystem.API(), where.Cookies())
	if err != nil {
		exists, _ := filesystem.API().Exists(where.Cookies())
		if !exists {
			return saved, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return saved, nil
	}

	if err := json.Unmarshal(data, &saved); err != nil {
		log.Warnf("discarding unreadable cookie file: %s", err)
		return make(map[string][]savedCookie), nil
	}

	return saved, nil
}
