// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-mastodon"
	"github.com/rs/zerolog"
)

// fakeClient implements Client with canned responses and records which
// operations were invoked, so tests can assert on dispatch behavior without
// a network.
type fakeClient struct {
	host  string
	calls []string

	// err fails every operation; errs fails specific operations by name.
	err  error
	errs map[string]error

	// accounts maps full acct strings to accounts for AccountLookup.
	accounts map[string]*mastodon.Account
	statuses []*mastodon.Status
	peers    []string
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) record(op string) error {
	f.calls = append(f.calls, op)
	if f.err != nil {
		return f.err
	}
	return f.errs[op]
}

func (f *fakeClient) callCount(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeClient) Instance(_ context.Context) (*mastodon.Instance, error) {
	if err := f.record("Instance"); err != nil {
		return nil, err
	}
	return &mastodon.Instance{URI: f.host}, nil
}

func (f *fakeClient) InstanceActivity(_ context.Context) ([]*mastodon.WeeklyActivity, error) {
	if err := f.record("InstanceActivity"); err != nil {
		return nil, err
	}
	return []*mastodon.WeeklyActivity{}, nil
}

func (f *fakeClient) InstancePeers(_ context.Context) ([]string, error) {
	if err := f.record("InstancePeers"); err != nil {
		return nil, err
	}
	return f.peers, nil
}

func (f *fakeClient) InstanceRules(_ context.Context) ([]*Rule, error) {
	if err := f.record("InstanceRules"); err != nil {
		return nil, err
	}
	return []*Rule{}, nil
}

func (f *fakeClient) InstanceNodeinfo(_ context.Context) (*NodeInfo, error) {
	if err := f.record("InstanceNodeinfo"); err != nil {
		return nil, err
	}
	return &NodeInfo{Version: "2.0"}, nil
}

func (f *fakeClient) InstanceHealth(_ context.Context) error {
	return f.record("InstanceHealth")
}

func (f *fakeClient) Announcements(_ context.Context) ([]*Announcement, error) {
	if err := f.record("Announcements"); err != nil {
		return nil, err
	}
	return []*Announcement{}, nil
}

func (f *fakeClient) AccountLookup(_ context.Context, acct string) (*mastodon.Account, error) {
	if err := f.record("AccountLookup"); err != nil {
		return nil, err
	}
	account, ok := f.accounts[acct]
	if !ok {
		return nil, fmt.Errorf("record not found: %s", acct)
	}
	return account, nil
}

func (f *fakeClient) Account(_ context.Context, id mastodon.ID) (*mastodon.Account, error) {
	if err := f.record("Account"); err != nil {
		return nil, err
	}
	return &mastodon.Account{ID: id}, nil
}

func (f *fakeClient) AccountStatuses(_ context.Context, _ mastodon.ID, _ *mastodon.Pagination) ([]*mastodon.Status, error) {
	if err := f.record("AccountStatuses"); err != nil {
		return nil, err
	}
	return f.statuses, nil
}

func (f *fakeClient) AccountFollowers(_ context.Context, _ mastodon.ID, _ *mastodon.Pagination) ([]*mastodon.Account, error) {
	if err := f.record("AccountFollowers"); err != nil {
		return nil, err
	}
	return []*mastodon.Account{}, nil
}

func (f *fakeClient) AccountFollowing(_ context.Context, _ mastodon.ID, _ *mastodon.Pagination) ([]*mastodon.Account, error) {
	if err := f.record("AccountFollowing"); err != nil {
		return nil, err
	}
	return []*mastodon.Account{}, nil
}

func (f *fakeClient) AccountFeaturedTags(_ context.Context, _ mastodon.ID) ([]*FeaturedTag, error) {
	if err := f.record("AccountFeaturedTags"); err != nil {
		return nil, err
	}
	return []*FeaturedTag{}, nil
}

func (f *fakeClient) TimelinePublic(_ context.Context, _ bool, _ *mastodon.Pagination) ([]*mastodon.Status, error) {
	if err := f.record("TimelinePublic"); err != nil {
		return nil, err
	}
	return f.statuses, nil
}

func (f *fakeClient) TimelineHashtag(_ context.Context, _ string, _ bool, _ *mastodon.Pagination) ([]*mastodon.Status, error) {
	if err := f.record("TimelineHashtag"); err != nil {
		return nil, err
	}
	return f.statuses, nil
}

func (f *fakeClient) Search(_ context.Context, _ string, _ bool) (*mastodon.Results, error) {
	if err := f.record("Search"); err != nil {
		return nil, err
	}
	return &mastodon.Results{}, nil
}

func (f *fakeClient) Status(_ context.Context, id mastodon.ID) (*mastodon.Status, error) {
	if err := f.record("Status"); err != nil {
		return nil, err
	}
	return &mastodon.Status{ID: id}, nil
}

func (f *fakeClient) StatusContext(_ context.Context, _ mastodon.ID) (*mastodon.Context, error) {
	if err := f.record("StatusContext"); err != nil {
		return nil, err
	}
	return &mastodon.Context{}, nil
}

func (f *fakeClient) StatusCard(_ context.Context, _ mastodon.ID) (*mastodon.Card, error) {
	if err := f.record("StatusCard"); err != nil {
		return nil, err
	}
	return &mastodon.Card{}, nil
}

func (f *fakeClient) StatusFavouritedBy(_ context.Context, _ mastodon.ID, _ *mastodon.Pagination) ([]*mastodon.Account, error) {
	if err := f.record("StatusFavouritedBy"); err != nil {
		return nil, err
	}
	return []*mastodon.Account{}, nil
}

func (f *fakeClient) StatusRebloggedBy(_ context.Context, _ mastodon.ID, _ *mastodon.Pagination) ([]*mastodon.Account, error) {
	if err := f.record("StatusRebloggedBy"); err != nil {
		return nil, err
	}
	return []*mastodon.Account{}, nil
}

func (f *fakeClient) StatusHistory(_ context.Context, _ mastodon.ID) ([]*mastodon.Status, error) {
	if err := f.record("StatusHistory"); err != nil {
		return nil, err
	}
	return f.statuses, nil
}

func (f *fakeClient) Poll(_ context.Context, id mastodon.ID) (*mastodon.Poll, error) {
	if err := f.record("Poll"); err != nil {
		return nil, err
	}
	return &mastodon.Poll{ID: id}, nil
}

func (f *fakeClient) TrendingTags(_ context.Context, _ int) ([]*mastodon.Tag, error) {
	if err := f.record("TrendingTags"); err != nil {
		return nil, err
	}
	return []*mastodon.Tag{}, nil
}

func (f *fakeClient) TrendingStatuses(_ context.Context, _ int) ([]*mastodon.Status, error) {
	if err := f.record("TrendingStatuses"); err != nil {
		return nil, err
	}
	return f.statuses, nil
}

func (f *fakeClient) TrendingLinks(_ context.Context, _ int) ([]*mastodon.Card, error) {
	if err := f.record("TrendingLinks"); err != nil {
		return nil, err
	}
	return []*mastodon.Card{}, nil
}

func (f *fakeClient) CustomEmojis(_ context.Context) ([]mastodon.Emoji, error) {
	if err := f.record("CustomEmojis"); err != nil {
		return nil, err
	}
	return []mastodon.Emoji{}, nil
}

func (f *fakeClient) Directory(_ context.Context, _ bool, _, _ int) ([]*mastodon.Account, error) {
	if err := f.record("Directory"); err != nil {
		return nil, err
	}
	return []*mastodon.Account{}, nil
}

// fakeEnv replaces the Switcher's client factory and app registrar, counting
// creations and registrations per host.
type fakeEnv struct {
	clients   map[string]*fakeClient
	created   map[string]int
	failHosts map[string]bool

	registered  map[string]int
	registerErr error
	// tokens records the app token handed to the factory per host.
	tokens map[string]*AppToken
}

func (e *fakeEnv) factory(_ context.Context, host string, token *AppToken) (Client, error) {
	e.created[host]++
	e.tokens[host] = token
	if e.failHosts[host] {
		return nil, errors.New("connection refused")
	}
	return e.client(host), nil
}

// client returns the fake client for host, creating it if needed so tests
// can seed responses before or after the first SetHost.
func (e *fakeEnv) client(host string) *fakeClient {
	fc, ok := e.clients[host]
	if !ok {
		fc = &fakeClient{host: host, accounts: make(map[string]*mastodon.Account)}
		e.clients[host] = fc
	}
	return fc
}

func (e *fakeEnv) register(_ context.Context, host, _, _ string) (AppToken, error) {
	e.registered[host]++
	if e.registerErr != nil {
		return AppToken{}, e.registerErr
	}
	return AppToken{ID: "id-" + host, Secret: "secret-" + host}, nil
}

// addAccount seeds an account on host so "user@host" resolves to id.
func (e *fakeEnv) addAccount(host, user string, id mastodon.ID) {
	fc := e.client(host)
	fc.accounts[user+"@"+host] = &mastodon.Account{ID: id, Acct: user + "@" + host, Username: user}
}

// newTestSwitcher builds a Switcher with a silent logger and the fake
// environment injected in place of the go-mastodon factory.
func newTestSwitcher(t *testing.T, cfg Config) (*Switcher, *fakeEnv) {
	t.Helper()
	nop := zerolog.Nop()
	cfg.Logger = &nop
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	env := &fakeEnv{
		clients:    make(map[string]*fakeClient),
		created:    make(map[string]int),
		failHosts:  make(map[string]bool),
		registered: make(map[string]int),
		tokens:     make(map[string]*AppToken),
	}
	s.newClient = env.factory
	s.registerApp = env.register
	return s, env
}

// fakeMasto wraps an httptest.Server simulating the subset of the Mastodon
// REST API the go-mastodon adapter touches. It records requests and can
// fail individual endpoints.
type fakeMasto struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []string

	FailEndpoints map[string]bool
}

func newFakeMasto() *fakeMasto {
	f := &fakeMasto{FailEndpoints: make(map[string]bool)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handler))
	return f
}

func (f *fakeMasto) Close() {
	f.Server.Close()
}

func (f *fakeMasto) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := r.URL.Path
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	f.calls = append(f.calls, call)
}

// CalledPath reports whether any recorded request path+query contains substr.
func (f *fakeMasto) CalledPath(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

func (f *fakeMasto) handler(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	if f.FailEndpoints[r.URL.Path] {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v1/instance":
		fmt.Fprint(w, `{"uri":"example.test","title":"Example","version":"4.2.0"}`)
	case "/api/v1/accounts/lookup":
		fmt.Fprintf(w, `{"id":"123","username":"alice","acct":%q}`, r.URL.Query().Get("acct"))
	case "/api/v1/timelines/public":
		fmt.Fprint(w, `[{"id":"1","content":"one"},{"id":"2","content":"two"}]`)
	case "/api/v1/accounts/123/statuses":
		fmt.Fprint(w, `[{"id":"10","content":"hello"}]`)
	case "/api/v1/accounts/123/featured_tags":
		fmt.Fprint(w, `[{"id":"1","name":"golang","url":"https://example.test/tags/golang","statuses_count":"3"}]`)
	case "/api/v1/statuses/10/history":
		fmt.Fprint(w, `[{"content":"first"},{"content":"edited"}]`)
	case "/api/v1/polls/77":
		fmt.Fprint(w, `{"id":"77","expired":true,"votes_count":10}`)
	case "/api/v1/announcements":
		fmt.Fprint(w, `[{"id":"5","content":"<p>maintenance tonight</p>","all_day":true}]`)
	case "/api/v1/instance/rules":
		fmt.Fprint(w, `[{"id":"1","text":"Be excellent to each other"}]`)
	case "/.well-known/nodeinfo":
		fmt.Fprintf(w, `{"links":[{"rel":"http://nodeinfo.diaspora.software/ns/schema/2.0","href":"%s/nodeinfo/2.0"}]}`, f.Server.URL)
	case "/nodeinfo/2.0":
		fmt.Fprint(w, `{"version":"2.0","software":{"name":"mastodon","version":"4.2.0"},"protocols":["activitypub"]}`)
	case "/health":
		fmt.Fprint(w, "OK")
	case "/api/v1/trends/tags":
		fmt.Fprint(w, `[{"name":"golang","url":"https://example.test/tags/golang"}]`)
	case "/api/v1/trends/statuses":
		fmt.Fprint(w, `[{"id":"30","content":"trending"}]`)
	case "/api/v1/trends/links":
		fmt.Fprint(w, `[{"url":"https://example.test/post","title":"A post"}]`)
	case "/api/v1/custom_emojis":
		fmt.Fprint(w, `[{"shortcode":"blobcat","url":"https://example.test/emoji.png"}]`)
	case "/api/v1/directory":
		fmt.Fprint(w, `[{"id":"9","username":"dir","acct":"dir"}]`)
	default:
		http.Error(w, `{"error":"record not found"}`, http.StatusNotFound)
	}
}
