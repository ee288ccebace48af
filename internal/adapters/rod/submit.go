package rod

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod/lib/proto"

	"github.com/shelfport/shelfport/internal/domain"
)

// Submit saves the open form and returns the id of the created record. A
// validation failure on the destination side comes back as a
// DestinationRejection.
func (d *Driver) Submit(ctx context.Context) (string, error) {
	save, err := d.element(ctx, "#book_editTabTextSave2")
	if err != nil {
		return "", err
	}
	wait := d.page.Context(ctx).Timeout(d.cfg.NavTimeout).WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := save.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("click save: %w", err)
	}
	wait()

	html, err := d.html(ctx)
	if err != nil {
		return "", err
	}
	if msg := rejectionMessage(html); msg != "" {
		return "", &domain.DestinationRejection{Message: msg}
	}

	workID, bookID, err := lastAddedIDs(html)
	if err != nil {
		return "", err
	}
	d.lastWorkID = workID
	return bookID, nil
}

func rejectionMessage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find(".formerror, .errormessage").First().Text())
}

// lastAddedIDs pulls the work and book ids out of the just-added link the
// destination renders after a successful save.
func lastAddedIDs(html string) (workID, bookID string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}
	var found bool
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		if m := workBookRe.FindStringSubmatch(href); m != nil {
			workID, bookID = m[1], m[2]
			found = true
			return false
		}
		return true
	})
	if !found {
		return "", "", fmt.Errorf("no created record link after save")
	}
	return workID, bookID, nil
}

// ReadBack loads the created record's details page and returns its field
// labels mapped to displayed values, plus the work code the record landed
// under.
func (d *Driver) ReadBack(ctx context.Context, id string) (map[string]string, error) {
	if d.lastWorkID == "" {
		return nil, fmt.Errorf("no work id captured for record %s", id)
	}
	u := fmt.Sprintf("%s/work/%s/details/%s", d.cfg.BaseURL, d.lastWorkID, id)
	if err := d.navigate(ctx, u); err != nil {
		return nil, err
	}
	html, err := d.html(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := parseDetails(html)
	if err != nil {
		return nil, err
	}
	fields["workcode"] = d.lastWorkID
	return fields, nil
}

// parseDetails reads the label/value rows of the details table. Labels are
// lowercased with spaces removed so "LC Classification" becomes
// "lcclassification".
func parseDetails(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string)
	doc.Find(".booklistrow").Each(func(_ int, row *goquery.Selection) {
		label := normalizeLabel(row.Find(".fieldname").First().Text())
		value := strings.TrimSpace(row.Find(".fieldvalue").First().Text())
		if label != "" && value != "" {
			fields[label] = value
		}
	})
	return fields, nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "")
}
