// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

const threatFeedTTL = 12 * time.Hour

type feedSource struct {
	Name string
	URL  string
}

var defaultFeeds = []feedSource{
	{Name: "OpenPhish", URL: "https://raw.githubusercontent.com/openphish/public_feed/refs/heads/main/feed.txt"},
	{Name: "URLhaus", URL: "https://urlhaus.abuse.ch/downloads/text_online/"},
}

// ThreatFeed checks domains against public phishing/malware URL feeds. The
// merged feed is refreshed at most every threatFeedTTL; a stale copy keeps
// serving while upstream is unreachable.
type ThreatFeed struct {
	mu        sync.RWMutex
	hosts     map[string]string // host -> feed name
	fetchedAt time.Time

	feeds  []feedSource
	client *http.Client
}

func NewThreatFeed() *ThreatFeed {
	return &ThreatFeed{
		feeds:  defaultFeeds,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *ThreatFeed) Check(ctx context.Context, domain string) (any, error) {
	hosts, err := t.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if source, ok := hosts[domain]; ok {
		return engine.ThreatListResult{Listed: true, Source: source}, nil
	}
	return engine.ThreatListResult{Listed: false}, nil
}

func (t *ThreatFeed) snapshot(ctx context.Context) (map[string]string, error) {
	t.mu.RLock()
	if t.hosts != nil && time.Since(t.fetchedAt) < threatFeedTTL {
		defer t.mu.RUnlock()
		return t.hosts, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hosts != nil && time.Since(t.fetchedAt) < threatFeedTTL {
		return t.hosts, nil
	}

	merged := make(map[string]string)
	var mergeMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, feed := range t.feeds {
		g.Go(func() error {
			hosts, err := t.fetchFeed(gctx, feed)
			if err != nil {
				return err
			}
			mergeMu.Lock()
			for h := range hosts {
				merged[h] = feed.Name
			}
			mergeMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if t.hosts != nil {
			return t.hosts, nil
		}
		return nil, fmt.Errorf("threat feed refresh: %w", err)
	}

	t.hosts = merged
	t.fetchedAt = time.Now()
	return t.hosts, nil
}

func (t *ThreatFeed) fetchFeed(ctx context.Context, feed feedSource) (map[string]bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", feed.Name, resp.StatusCode)
	}

	hosts := make(map[string]bool)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parsed, err := url.Parse(line)
		if err != nil || parsed.Host == "" {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		hosts[host] = true
	}
	return hosts, scanner.Err()
}
