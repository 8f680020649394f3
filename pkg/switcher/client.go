// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mattn/go-mastodon"
)

// Client is the per-host API surface the switcher dispatches to. The
// production implementation wraps a go-mastodon client; tests inject a mock.
type Client interface {
	Instance(ctx context.Context) (*mastodon.Instance, error)
	InstanceActivity(ctx context.Context) ([]*mastodon.WeeklyActivity, error)
	InstancePeers(ctx context.Context) ([]string, error)
	InstanceRules(ctx context.Context) ([]*Rule, error)
	InstanceNodeinfo(ctx context.Context) (*NodeInfo, error)
	InstanceHealth(ctx context.Context) error
	Announcements(ctx context.Context) ([]*Announcement, error)

	AccountLookup(ctx context.Context, acct string) (*mastodon.Account, error)
	Account(ctx context.Context, id mastodon.ID) (*mastodon.Account, error)
	AccountStatuses(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Status, error)
	AccountFollowers(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error)
	AccountFollowing(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error)
	AccountFeaturedTags(ctx context.Context, id mastodon.ID) ([]*FeaturedTag, error)

	TimelinePublic(ctx context.Context, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error)
	TimelineHashtag(ctx context.Context, tag string, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error)
	Search(ctx context.Context, q string, resolve bool) (*mastodon.Results, error)

	Status(ctx context.Context, id mastodon.ID) (*mastodon.Status, error)
	StatusContext(ctx context.Context, id mastodon.ID) (*mastodon.Context, error)
	StatusCard(ctx context.Context, id mastodon.ID) (*mastodon.Card, error)
	StatusFavouritedBy(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error)
	StatusRebloggedBy(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error)
	StatusHistory(ctx context.Context, id mastodon.ID) ([]*mastodon.Status, error)
	Poll(ctx context.Context, id mastodon.ID) (*mastodon.Poll, error)

	TrendingTags(ctx context.Context, limit int) ([]*mastodon.Tag, error)
	TrendingStatuses(ctx context.Context, limit int) ([]*mastodon.Status, error)
	TrendingLinks(ctx context.Context, limit int) ([]*mastodon.Card, error)
	CustomEmojis(ctx context.Context) ([]mastodon.Emoji, error)
	Directory(ctx context.Context, local bool, limit, offset int) ([]*mastodon.Account, error)
}

// Rule is one entry of an instance's server rules.
type Rule struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Announcement is an instance-wide announcement.
type Announcement struct {
	ID          mastodon.ID `json:"id"`
	Content     string      `json:"content"`
	AllDay      bool        `json:"all_day"`
	PublishedAt time.Time   `json:"published_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// FeaturedTag is a hashtag an account features on its profile. The counters
// arrive as strings on the wire.
type FeaturedTag struct {
	ID            mastodon.ID `json:"id"`
	Name          string      `json:"name"`
	URL           string      `json:"url"`
	StatusesCount string      `json:"statuses_count"`
	LastStatusAt  string      `json:"last_status_at"`
}

// NodeInfo is the subset of a host's nodeinfo document exposed here.
type NodeInfo struct {
	Version  string `json:"version"`
	Software struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"software"`
	Protocols []string `json:"protocols"`
}

// clientFactory creates the client for a host. token is nil unless app
// tokens are enabled.
type clientFactory func(ctx context.Context, host string, token *AppToken) (Client, error)

// registerFunc registers an application at a host and returns its credential pair.
type registerFunc func(ctx context.Context, host, appName, scopes string) (AppToken, error)

// mastodonClient adapts a go-mastodon client to the Client interface. The
// few endpoints go-mastodon does not cover (trends, custom emojis, the
// profile directory) are fetched through the client's own HTTP transport.
type mastodonClient struct {
	c *mastodon.Client
}

var _ Client = (*mastodonClient)(nil)

// newMastodonClient is the production clientFactory. It fetches instance
// metadata once so an unreachable or non-Mastodon host fails at creation
// time rather than on the first dispatched call.
func newMastodonClient(ctx context.Context, host string, token *AppToken) (Client, error) {
	conf := &mastodon.Config{Server: serverURL(host)}
	if token != nil {
		conf.ClientID = token.ID
		conf.ClientSecret = token.Secret
	}
	mc := &mastodonClient{c: mastodon.NewClient(conf)}
	if _, err := mc.Instance(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach instance %q: %w", host, err)
	}
	return mc, nil
}

// registerMastodonApp is the production registerFunc.
func registerMastodonApp(ctx context.Context, host, appName, scopes string) (AppToken, error) {
	app, err := mastodon.RegisterApp(ctx, &mastodon.AppConfig{
		Server:     serverURL(host),
		ClientName: appName,
		Scopes:     scopes,
	})
	if err != nil {
		return AppToken{}, err
	}
	return AppToken{ID: app.ClientID, Secret: app.ClientSecret}, nil
}

func (mc *mastodonClient) Instance(ctx context.Context) (*mastodon.Instance, error) {
	return mc.c.GetInstance(ctx)
}

func (mc *mastodonClient) InstanceActivity(ctx context.Context) ([]*mastodon.WeeklyActivity, error) {
	return mc.c.GetInstanceActivity(ctx)
}

func (mc *mastodonClient) InstancePeers(ctx context.Context) ([]string, error) {
	return mc.c.GetInstancePeers(ctx)
}

func (mc *mastodonClient) InstanceRules(ctx context.Context) ([]*Rule, error) {
	var rules []*Rule
	if err := mc.getJSON(ctx, "/api/v1/instance/rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// InstanceNodeinfo follows the well-known nodeinfo link to the schema
// document it advertises.
func (mc *mastodonClient) InstanceNodeinfo(ctx context.Context) (*NodeInfo, error) {
	var wellKnown struct {
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := mc.getJSON(ctx, "/.well-known/nodeinfo", nil, &wellKnown); err != nil {
		return nil, err
	}
	if len(wellKnown.Links) == 0 {
		return nil, fmt.Errorf("host advertises no nodeinfo document")
	}
	// The last link points at the newest schema version.
	var info NodeInfo
	if err := mc.getJSONURL(ctx, wellKnown.Links[len(wellKnown.Links)-1].Href, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// InstanceHealth probes the host's health endpoint, which answers with
// plain text rather than JSON.
func (mc *mastodonClient) InstanceHealth(ctx context.Context) error {
	u, err := url.Parse(mc.c.Config.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", mc.c.Config.Server, err)
	}
	u.Path = "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := mc.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (mc *mastodonClient) Announcements(ctx context.Context) ([]*Announcement, error) {
	var announcements []*Announcement
	if err := mc.getJSON(ctx, "/api/v1/announcements", nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (mc *mastodonClient) AccountLookup(ctx context.Context, acct string) (*mastodon.Account, error) {
	return mc.c.AccountLookup(ctx, acct)
}

func (mc *mastodonClient) Account(ctx context.Context, id mastodon.ID) (*mastodon.Account, error) {
	return mc.c.GetAccount(ctx, id)
}

func (mc *mastodonClient) AccountStatuses(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return mc.c.GetAccountStatuses(ctx, id, pg)
}

func (mc *mastodonClient) AccountFollowers(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return mc.c.GetAccountFollowers(ctx, id, pg)
}

func (mc *mastodonClient) AccountFollowing(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return mc.c.GetAccountFollowing(ctx, id, pg)
}

func (mc *mastodonClient) AccountFeaturedTags(ctx context.Context, id mastodon.ID) ([]*FeaturedTag, error) {
	var tags []*FeaturedTag
	if err := mc.getJSON(ctx, fmt.Sprintf("/api/v1/accounts/%s/featured_tags", url.PathEscape(string(id))), nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (mc *mastodonClient) TimelinePublic(ctx context.Context, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return mc.c.GetTimelinePublic(ctx, local, pg)
}

func (mc *mastodonClient) TimelineHashtag(ctx context.Context, tag string, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return mc.c.GetTimelineHashtag(ctx, tag, local, pg)
}

func (mc *mastodonClient) Search(ctx context.Context, q string, resolve bool) (*mastodon.Results, error) {
	return mc.c.Search(ctx, q, resolve)
}

func (mc *mastodonClient) Status(ctx context.Context, id mastodon.ID) (*mastodon.Status, error) {
	return mc.c.GetStatus(ctx, id)
}

func (mc *mastodonClient) StatusContext(ctx context.Context, id mastodon.ID) (*mastodon.Context, error) {
	return mc.c.GetStatusContext(ctx, id)
}

func (mc *mastodonClient) StatusCard(ctx context.Context, id mastodon.ID) (*mastodon.Card, error) {
	return mc.c.GetStatusCard(ctx, id)
}

func (mc *mastodonClient) StatusFavouritedBy(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return mc.c.GetFavouritedBy(ctx, id, pg)
}

func (mc *mastodonClient) StatusRebloggedBy(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return mc.c.GetRebloggedBy(ctx, id, pg)
}

func (mc *mastodonClient) StatusHistory(ctx context.Context, id mastodon.ID) ([]*mastodon.Status, error) {
	var edits []*mastodon.Status
	if err := mc.getJSON(ctx, fmt.Sprintf("/api/v1/statuses/%s/history", url.PathEscape(string(id))), nil, &edits); err != nil {
		return nil, err
	}
	return edits, nil
}

func (mc *mastodonClient) Poll(ctx context.Context, id mastodon.ID) (*mastodon.Poll, error) {
	var poll mastodon.Poll
	if err := mc.getJSON(ctx, fmt.Sprintf("/api/v1/polls/%s", url.PathEscape(string(id))), nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (mc *mastodonClient) TrendingTags(ctx context.Context, limit int) ([]*mastodon.Tag, error) {
	var tags []*mastodon.Tag
	if err := mc.getJSON(ctx, "/api/v1/trends/tags", limitQuery(limit), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (mc *mastodonClient) TrendingStatuses(ctx context.Context, limit int) ([]*mastodon.Status, error) {
	var statuses []*mastodon.Status
	if err := mc.getJSON(ctx, "/api/v1/trends/statuses", limitQuery(limit), &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (mc *mastodonClient) TrendingLinks(ctx context.Context, limit int) ([]*mastodon.Card, error) {
	var links []*mastodon.Card
	if err := mc.getJSON(ctx, "/api/v1/trends/links", limitQuery(limit), &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (mc *mastodonClient) CustomEmojis(ctx context.Context) ([]mastodon.Emoji, error) {
	var emojis []mastodon.Emoji
	if err := mc.getJSON(ctx, "/api/v1/custom_emojis", nil, &emojis); err != nil {
		return nil, err
	}
	return emojis, nil
}

func (mc *mastodonClient) Directory(ctx context.Context, local bool, limit, offset int) ([]*mastodon.Account, error) {
	q := limitQuery(limit)
	if local {
		q.Set("local", "true")
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var accounts []*mastodon.Account
	if err := mc.getJSON(ctx, "/api/v1/directory", q, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// getJSON performs a GET against an API path not covered by go-mastodon,
// reusing the wrapped client's transport and credentials.
func (mc *mastodonClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u, err := url.Parse(mc.c.Config.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", mc.c.Config.Server, err)
	}
	u.Path = path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return mc.getJSONURL(ctx, u.String(), out)
}

// getJSONURL is getJSON for an absolute URL, e.g. a nodeinfo link.
func (mc *mastodonClient) getJSONURL(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if mc.c.Config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+mc.c.Config.AccessToken)
	}
	resp, err := mc.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
