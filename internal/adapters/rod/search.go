package rod

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
)

var workBookRe = regexp.MustCompile(`/work/(\d+)/book/(\d+)`)

// Search runs a source query on the add-books page and returns candidates
// in result order.
func (d *Driver) Search(ctx context.Context, q ports.SearchQuery) ([]domain.SourceCandidate, error) {
	if err := d.navigate(ctx, d.cfg.BaseURL+"/addbooks"); err != nil {
		return nil, err
	}

	if q.Source != "" {
		if err := d.selectText(ctx, "#booksearch_source", q.Source); err != nil {
			return nil, err
		}
	}

	term := q.Value
	if term == "" {
		term = strings.TrimSpace(q.Title + " " + q.Author)
	}
	if err := d.setText(ctx, "#form_find", term); err != nil {
		return nil, err
	}
	btn, err := d.element(ctx, "#search_btn")
	if err != nil {
		return nil, err
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("click search: %w", err)
	}
	if err := d.waitResults(ctx); err != nil {
		return nil, err
	}

	html, err := d.html(ctx)
	if err != nil {
		return nil, err
	}
	return parseSearchResults(html)
}

// waitResults blocks until the result list or the empty-result notice
// renders after a search submit.
func (d *Driver) waitResults(ctx context.Context) error {
	page := d.page.Context(ctx).Timeout(d.cfg.NavTimeout)
	_, err := page.Race().
		Element("#resultsarea .result").Handle(func(*rod.Element) error { return nil }).
		Element("#resultsarea .noresults").Handle(func(*rod.Element) error { return nil }).
		Do()
	return err
}

func parseSearchResults(html string) ([]domain.SourceCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	var candidates []domain.SourceCandidate
	doc.Find("#resultsarea .result").Each(func(i int, s *goquery.Selection) {
		c := domain.SourceCandidate{Rank: i}
		link := s.Find("a.results_title").First()
		c.Title = strings.TrimSpace(link.Text())
		if href, ok := link.Attr("href"); ok {
			c.CandidateID = href
			if m := workBookRe.FindStringSubmatch(href); m != nil {
				c.WorkID = m[1]
			}
		}
		s.Find(".results_authors a").Each(func(_ int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			if name != "" {
				c.Authors = append(c.Authors, name)
			}
		})
		meta := strings.TrimSpace(s.Find(".results_meta").Text())
		c.Publisher, c.Year = splitPublisherYear(meta)
		if c.Title != "" || c.CandidateID != "" {
			candidates = append(candidates, c)
		}
	})
	return candidates, nil
}

var yearRe = regexp.MustCompile(`\b(\d{4})\b`)

// splitPublisherYear pulls a publication year out of the metadata line; the
// rest is treated as the publisher.
func splitPublisherYear(meta string) (publisher, year string) {
	if m := yearRe.FindStringSubmatch(meta); m != nil {
		year = m[1]
	}
	publisher = strings.Trim(strings.TrimSpace(yearRe.ReplaceAllString(meta, "")), " ,()")
	return publisher, year
}

// SearchVenue queries the venue picker for known venues matching name.
func (d *Driver) SearchVenue(ctx context.Context, name string) ([]domain.VenueCandidate, error) {
	u := d.cfg.BaseURL + "/venue/search?q=" + url.QueryEscape(strings.TrimSpace(name))
	if err := d.navigate(ctx, u); err != nil {
		return nil, err
	}
	html, err := d.html(ctx)
	if err != nil {
		return nil, err
	}
	return parseVenueResults(html)
}

var venueIDRe = regexp.MustCompile(`/venue/(\d+)`)

func parseVenueResults(html string) ([]domain.VenueCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse venues: %w", err)
	}
	var candidates []domain.VenueCandidate
	doc.Find(".venuelist a").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := venueIDRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		candidates = append(candidates, domain.VenueCandidate{
			Name:    strings.TrimSpace(a.Text()),
			VenueID: m[1],
			Rank:    i,
		})
	})
	return candidates, nil
}
