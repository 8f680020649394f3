// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"

	"github.com/mattn/go-mastodon"
)

// Account-addressed operations take an acct of the form "user@host",
// "@user@host" or "user" (resolved on the active host). Instance-addressed
// operations take a host (bare hostname or URL); an empty host falls back to
// the previously targeted host for calls carrying a pagination-continuation
// token, else to the active host. Paginated operations thread *mastodon.Pagination:
// pass the pagination returned by the wrapped client back in to continue.

// Account returns the account identified by acct.
func (s *Switcher) Account(ctx context.Context, acct string) (*mastodon.Account, error) {
	return accountCall(ctx, s, "Account", acct, func(ctx context.Context, c Client, id mastodon.ID) (*mastodon.Account, error) {
		return c.Account(ctx, id)
	})
}

// AccountStatuses returns statuses posted by the account.
func (s *Switcher) AccountStatuses(ctx context.Context, acct string, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return accountCall(ctx, s, "AccountStatuses", acct, func(ctx context.Context, c Client, id mastodon.ID) ([]*mastodon.Status, error) {
		return c.AccountStatuses(ctx, id, pg)
	})
}

// AccountFollowers returns accounts following the account.
func (s *Switcher) AccountFollowers(ctx context.Context, acct string, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return accountCall(ctx, s, "AccountFollowers", acct, func(ctx context.Context, c Client, id mastodon.ID) ([]*mastodon.Account, error) {
		return c.AccountFollowers(ctx, id, pg)
	})
}

// AccountFollowing returns accounts the account follows.
func (s *Switcher) AccountFollowing(ctx context.Context, acct string, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return accountCall(ctx, s, "AccountFollowing", acct, func(ctx context.Context, c Client, id mastodon.ID) ([]*mastodon.Account, error) {
		return c.AccountFollowing(ctx, id, pg)
	})
}

// AccountFeaturedTags returns the hashtags the account features on its profile.
func (s *Switcher) AccountFeaturedTags(ctx context.Context, acct string) ([]*FeaturedTag, error) {
	return accountCall(ctx, s, "AccountFeaturedTags", acct, func(ctx context.Context, c Client, id mastodon.ID) ([]*FeaturedTag, error) {
		return c.AccountFeaturedTags(ctx, id)
	})
}

// Instance returns the host's instance metadata.
func (s *Switcher) Instance(ctx context.Context, host string) (*mastodon.Instance, error) {
	return instanceCall(ctx, s, "Instance", host, false, func(ctx context.Context, c Client) (*mastodon.Instance, error) {
		return c.Instance(ctx)
	})
}

// InstanceActivity returns the host's weekly activity.
func (s *Switcher) InstanceActivity(ctx context.Context, host string) ([]*mastodon.WeeklyActivity, error) {
	return instanceCall(ctx, s, "InstanceActivity", host, false, func(ctx context.Context, c Client) ([]*mastodon.WeeklyActivity, error) {
		return c.InstanceActivity(ctx)
	})
}

// InstancePeers returns the hosts the instance federates with.
func (s *Switcher) InstancePeers(ctx context.Context, host string) ([]string, error) {
	return instanceCall(ctx, s, "InstancePeers", host, false, func(ctx context.Context, c Client) ([]string, error) {
		return c.InstancePeers(ctx)
	})
}

// InstanceRules returns the host's server rules.
func (s *Switcher) InstanceRules(ctx context.Context, host string) ([]*Rule, error) {
	return instanceCall(ctx, s, "InstanceRules", host, false, func(ctx context.Context, c Client) ([]*Rule, error) {
		return c.InstanceRules(ctx)
	})
}

// InstanceNodeinfo returns the host's nodeinfo document.
func (s *Switcher) InstanceNodeinfo(ctx context.Context, host string) (*NodeInfo, error) {
	return instanceCall(ctx, s, "InstanceNodeinfo", host, false, func(ctx context.Context, c Client) (*NodeInfo, error) {
		return c.InstanceNodeinfo(ctx)
	})
}

// InstanceHealth reports an error when the host's health endpoint does not
// answer positively.
func (s *Switcher) InstanceHealth(ctx context.Context, host string) error {
	_, err := instanceCall(ctx, s, "InstanceHealth", host, false, func(ctx context.Context, c Client) (struct{}, error) {
		return struct{}{}, c.InstanceHealth(ctx)
	})
	return err
}

// Announcements returns the host's announcements.
func (s *Switcher) Announcements(ctx context.Context, host string) ([]*Announcement, error) {
	return instanceCall(ctx, s, "Announcements", host, false, func(ctx context.Context, c Client) ([]*Announcement, error) {
		return c.Announcements(ctx)
	})
}

// TimelinePublic returns the host's public timeline. local limits it to
// statuses originating on the host.
func (s *Switcher) TimelinePublic(ctx context.Context, host string, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return instanceCall(ctx, s, "TimelinePublic", host, hasContinuation(pg), func(ctx context.Context, c Client) ([]*mastodon.Status, error) {
		return c.TimelinePublic(ctx, local, pg)
	})
}

// TimelineHashtag returns the host's timeline for a hashtag.
func (s *Switcher) TimelineHashtag(ctx context.Context, host, tag string, local bool, pg *mastodon.Pagination) ([]*mastodon.Status, error) {
	return instanceCall(ctx, s, "TimelineHashtag", host, hasContinuation(pg), func(ctx context.Context, c Client) ([]*mastodon.Status, error) {
		return c.TimelineHashtag(ctx, tag, local, pg)
	})
}

// Search performs a search on the host. resolve asks the host to fetch
// unknown accounts or statuses from their origin.
func (s *Switcher) Search(ctx context.Context, host, q string, resolve bool) (*mastodon.Results, error) {
	return instanceCall(ctx, s, "Search", host, false, func(ctx context.Context, c Client) (*mastodon.Results, error) {
		return c.Search(ctx, q, resolve)
	})
}

// Status returns a status by id, as known to the host.
func (s *Switcher) Status(ctx context.Context, host string, id mastodon.ID) (*mastodon.Status, error) {
	return instanceCall(ctx, s, "Status", host, false, func(ctx context.Context, c Client) (*mastodon.Status, error) {
		return c.Status(ctx, id)
	})
}

// StatusContext returns a status's ancestors and descendants.
func (s *Switcher) StatusContext(ctx context.Context, host string, id mastodon.ID) (*mastodon.Context, error) {
	return instanceCall(ctx, s, "StatusContext", host, false, func(ctx context.Context, c Client) (*mastodon.Context, error) {
		return c.StatusContext(ctx, id)
	})
}

// StatusCard returns a status's preview card.
func (s *Switcher) StatusCard(ctx context.Context, host string, id mastodon.ID) (*mastodon.Card, error) {
	return instanceCall(ctx, s, "StatusCard", host, false, func(ctx context.Context, c Client) (*mastodon.Card, error) {
		return c.StatusCard(ctx, id)
	})
}

// StatusFavouritedBy returns accounts that favourited the status.
func (s *Switcher) StatusFavouritedBy(ctx context.Context, host string, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return instanceCall(ctx, s, "StatusFavouritedBy", host, hasContinuation(pg), func(ctx context.Context, c Client) ([]*mastodon.Account, error) {
		return c.StatusFavouritedBy(ctx, id, pg)
	})
}

// StatusRebloggedBy returns accounts that reblogged the status.
func (s *Switcher) StatusRebloggedBy(ctx context.Context, host string, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Account, error) {
	return instanceCall(ctx, s, "StatusRebloggedBy", host, hasContinuation(pg), func(ctx context.Context, c Client) ([]*mastodon.Account, error) {
		return c.StatusRebloggedBy(ctx, id, pg)
	})
}

// StatusHistory returns a status's edit history.
func (s *Switcher) StatusHistory(ctx context.Context, host string, id mastodon.ID) ([]*mastodon.Status, error) {
	return instanceCall(ctx, s, "StatusHistory", host, false, func(ctx context.Context, c Client) ([]*mastodon.Status, error) {
		return c.StatusHistory(ctx, id)
	})
}

// Poll returns a poll by id, as known to the host.
func (s *Switcher) Poll(ctx context.Context, host string, id mastodon.ID) (*mastodon.Poll, error) {
	return instanceCall(ctx, s, "Poll", host, false, func(ctx context.Context, c Client) (*mastodon.Poll, error) {
		return c.Poll(ctx, id)
	})
}

// TrendingTags returns the host's trending hashtags. limit <= 0 uses the
// host's default.
func (s *Switcher) TrendingTags(ctx context.Context, host string, limit int) ([]*mastodon.Tag, error) {
	return instanceCall(ctx, s, "TrendingTags", host, false, func(ctx context.Context, c Client) ([]*mastodon.Tag, error) {
		return c.TrendingTags(ctx, limit)
	})
}

// TrendingStatuses returns the host's trending statuses.
func (s *Switcher) TrendingStatuses(ctx context.Context, host string, limit int) ([]*mastodon.Status, error) {
	return instanceCall(ctx, s, "TrendingStatuses", host, false, func(ctx context.Context, c Client) ([]*mastodon.Status, error) {
		return c.TrendingStatuses(ctx, limit)
	})
}

// TrendingLinks returns the host's trending links.
func (s *Switcher) TrendingLinks(ctx context.Context, host string, limit int) ([]*mastodon.Card, error) {
	return instanceCall(ctx, s, "TrendingLinks", host, false, func(ctx context.Context, c Client) ([]*mastodon.Card, error) {
		return c.TrendingLinks(ctx, limit)
	})
}

// CustomEmojis returns the host's custom emoji.
func (s *Switcher) CustomEmojis(ctx context.Context, host string) ([]mastodon.Emoji, error) {
	return instanceCall(ctx, s, "CustomEmojis", host, false, func(ctx context.Context, c Client) ([]mastodon.Emoji, error) {
		return c.CustomEmojis(ctx)
	})
}

// Directory returns the host's profile directory. local limits it to
// accounts originating on the host; limit and offset page through it.
func (s *Switcher) Directory(ctx context.Context, host string, local bool, limit, offset int) ([]*mastodon.Account, error) {
	return instanceCall(ctx, s, "Directory", host, false, func(ctx context.Context, c Client) ([]*mastodon.Account, error) {
		return c.Directory(ctx, local, limit, offset)
	})
}
