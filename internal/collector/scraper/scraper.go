// Package scraper resolves school ids from the public team pages.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotFound means no page for the team carried a school id.
var ErrNotFound = errors.New("school id not found")

var (
	schoolIDRe   = regexp.MustCompile(`"schoolId":\s*"([^"]+)"`)
	teamIDRe     = regexp.MustCompile(`"teamId":\s*"([^"]+)"`)
	genderTagRe  = regexp.MustCompile(`\s*\([MW]\)\s*$`)
	nonLettersRe = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// PageFetcher loads a page body; transport.Client satisfies it.
type PageFetcher interface {
	GetPage(ctx context.Context, url string) ([]byte, error)
}

type Scraper struct {
	fetch   PageFetcher
	baseURL string
}

func New(fetch PageFetcher, baseURL string) *Scraper {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Scraper{fetch: fetch, baseURL: baseURL}
}

// IDs are the identifiers embedded in a team page.
type IDs struct {
	SchoolID string
	TeamID   string
}

// Slug turns a team name into the page path segment: "St. Mary's (W)" -> "StMarys".
func Slug(teamName string) string {
	name := genderTagRe.ReplaceAllString(teamName, "")
	name = strings.ReplaceAll(name, ".", "")
	name = nonLettersRe.ReplaceAllString(name, "")

	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// SchoolID fetches the men's team page of teamName, then the women's, and returns the first
// school id found.
func (s *Scraper) SchoolID(ctx context.Context, teamName string) (string, error) {
	slug := Slug(teamName)
	if slug == "" {
		return "", fmt.Errorf("%w: team name %q has no letters", ErrNotFound, teamName)
	}

	var lastErr error
	for _, suffix := range []string{"M", "W"} {
		url := s.baseURL + slug + suffix + "/Team"
		body, err := s.fetch.GetPage(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Debug("Team page fetch failed", "url", url, "error", err)
			lastErr = err
			continue
		}
		ids, err := ExtractIDs(body)
		if err != nil {
			lastErr = err
			continue
		}
		return ids.SchoolID, nil
	}
	if errors.Is(lastErr, ErrNotFound) {
		return "", fmt.Errorf("team %q: %w", teamName, lastErr)
	}
	return "", fmt.Errorf("%w for %q: %w", ErrNotFound, teamName, lastErr)
}

// ExtractIDs reads the ids from the page's inline scripts, falling back to the whole body.
func ExtractIDs(page []byte) (IDs, error) {
	var ids IDs
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err == nil {
		doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			ids = match(sel.Text())
			return ids.SchoolID == ""
		})
	}
	if ids.SchoolID == "" {
		ids = match(string(page))
	}
	if ids.SchoolID == "" {
		return IDs{}, ErrNotFound
	}
	return ids, nil
}

func match(text string) IDs {
	var ids IDs
	if m := schoolIDRe.FindStringSubmatch(text); m != nil {
		ids.SchoolID = m[1]
	}
	if m := teamIDRe.FindStringSubmatch(text); m != nil {
		ids.TeamID = m[1]
	}
	return ids
}
