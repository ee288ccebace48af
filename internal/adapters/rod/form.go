package rod

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/resolve"
)

// OpenEntryForm opens the book entry form: the blank manual form, or the
// prefilled one behind a search candidate.
func (d *Driver) OpenEntryForm(ctx context.Context, mode domain.EntryMode, candidate *domain.SourceCandidate) error {
	d.entryMode = mode
	switch mode {
	case domain.ModeManual:
		if err := d.navigate(ctx, d.cfg.BaseURL+"/addnew.php"); err != nil {
			return err
		}
	case domain.ModeSourceMatched:
		if candidate == nil {
			return fmt.Errorf("source-matched entry without a candidate")
		}
		u := candidate.CandidateID
		if strings.HasPrefix(u, "/") {
			u = d.cfg.BaseURL + u
		}
		if err := d.navigate(ctx, u); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown entry mode %q", mode)
	}
	_, err := d.element(ctx, "#form_title")
	return err
}

// SetField applies one logical form field. Structured values carry their
// domain types; everything else arrives as a string.
func (d *Driver) SetField(ctx context.Context, name string, value any) error {
	switch name {
	case "title":
		return d.setText(ctx, "#form_title", value.(string))
	case "sortcharacter":
		return d.selectValue(ctx, "#sortcharselector", value.(string))
	case "tags":
		tags, _ := value.([]string)
		return d.setText(ctx, "#form_tags", strings.Join(tags, ", "))
	case "collections":
		names, _ := value.([]string)
		return d.setCollections(ctx, names)
	case "rating":
		return d.setRating(ctx, value)
	case "review":
		return d.setText(ctx, "#form_review", value.(string))
	case "reviewlang":
		return d.selectText(ctx, "#form_reviewlang", value.(string))
	case "authors":
		authors, _ := value.([]domain.Author)
		return d.setAuthors(ctx, authors)
	case "format":
		f, _ := value.(domain.Format)
		return d.setFormat(ctx, f)
	case "date":
		return d.setText(ctx, "#form_date", value.(string))
	case "publication":
		return d.setText(ctx, "#form_publication", value.(string))
	case "isbn":
		return d.setText(ctx, "#form_ISBN", value.(string))
	case "volumes":
		return d.setText(ctx, "#numVolumes", value.(string))
	case "copies":
		return d.setText(ctx, "#form_copies", value.(string))
	case "paginations":
		pags, _ := value.([]domain.Pagination)
		return d.setPaginations(ctx, pags)
	case "dimensions":
		dims, _ := value.(domain.Dimensions)
		return d.setDimensions(ctx, dims)
	case "weights":
		ws, _ := value.([]string)
		return d.setWeights(ctx, ws)
	case "language_primary":
		return d.setLanguage(ctx, "#form_language", value.(domain.LanguageChoice))
	case "language_secondary":
		return d.setLanguage(ctx, "#form_language2", value.(domain.LanguageChoice))
	case "language_original":
		return d.setLanguage(ctx, "#form_language_original", value.(domain.LanguageChoice))
	case "reading_dates":
		rd, _ := value.(domain.ReadingDates)
		return d.setReadingDates(ctx, rd)
	case "dateacquired":
		return d.setText(ctx, "#form_datebought", value.(string))
	case "venue":
		v, _ := value.(domain.VenueCandidate)
		return d.setVenue(ctx, v)
	case "from_where_text":
		return d.setText(ctx, "#form_fromwhere", value.(string))
	case "lcc":
		return d.setText(ctx, "#form_lccallnumber", value.(string))
	case "dewey":
		return d.setText(ctx, "#form_dewey", value.(string))
	case "callnumber":
		return d.setText(ctx, "#form_btc_callnumber", value.(string))
	case "comments":
		return d.setText(ctx, "#form_comments", value.(string))
	case "privatecomment":
		return d.setText(ctx, "#form_privatecomment", value.(string))
	case "summary":
		return d.setText(ctx, "#form_summary", value.(string))
	case "physical_description":
		return d.setText(ctx, "#phys_summary", value.(string))
	case "barcode":
		return d.setText(ctx, "#item_inventory_barcode_1", value.(string))
	case "bcid":
		return d.setBCID(ctx, value.(string))
	case "cover":
		return d.setText(ctx, "#form_coverurl", value.(string))
	case "private":
		if on, _ := value.(bool); on {
			return d.setChecked(ctx, "#books_private", true)
		}
		return nil
	default:
		return fmt.Errorf("unknown form field %q", name)
	}
}

// selectValue picks a select option by its value attribute.
func (d *Driver) selectValue(ctx context.Context, selector, value string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	css := fmt.Sprintf(`option[value=%q]`, value)
	return el.Select([]string{css}, true, rod.SelectorTypeCSSSector)
}

// selectText picks a select option by its visible text.
func (d *Driver) selectText(ctx context.Context, selector, text string) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	return el.Select([]string{text}, true, rod.SelectorTypeText)
}

func (d *Driver) setChecked(ctx context.Context, selector string, want bool) error {
	el, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	checked, err := el.Property("checked")
	if err != nil {
		return err
	}
	if checked.Bool() == want {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (d *Driver) setRating(ctx context.Context, value any) error {
	var rating float64
	switch v := value.(type) {
	case float64:
		rating = v
	case string:
		fmt.Sscanf(v, "%f", &rating)
	}
	if rating <= 0 {
		return nil
	}
	// The rating widget keeps its state in a hidden input that the star
	// anchors update; writing it directly avoids half-star click geometry.
	// The input stores the doubled value: 4.5 stars is "9".
	_, err := d.page.Context(ctx).Eval(`(r) => {
		const el = document.querySelector('#form_rating');
		el.value = r;
		el.dispatchEvent(new Event('change'));
	}`, ratingTarget(rating))
	return err
}

// ratingTarget converts a 0-5 half-star rating to the hidden input's
// doubled integer encoding.
func ratingTarget(rating float64) string {
	return strconv.Itoa(int(rating * 2))
}

// setBCID enters the two halves of a BookCrossing id into their split inputs.
func (d *Driver) setBCID(ctx context.Context, bcid string) error {
	id1, id2 := splitBCID(bcid)
	if err := d.setText(ctx, "#form_bcid_1", id1); err != nil {
		return err
	}
	return d.setText(ctx, "#form_bcid_2", id2)
}

// splitBCID splits a "xxx-yyy" BookCrossing id at its first dash.
func splitBCID(bcid string) (id1, id2 string) {
	if i := strings.Index(bcid, "-"); i >= 0 {
		return bcid[:i], bcid[i+1:]
	}
	return bcid, ""
}

// setCollections checks the wanted collections in the picker, creating any
// that do not exist yet.
func (d *Driver) setCollections(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	html, err := d.html(ctx)
	if err != nil {
		return err
	}
	existing, err := collectionBoxes(html)
	if err != nil {
		return err
	}
	for _, name := range names {
		id, ok := existing[name]
		if !ok {
			if err := d.createCollection(ctx, name); err != nil {
				return err
			}
			html, err = d.html(ctx)
			if err != nil {
				return err
			}
			existing, err = collectionBoxes(html)
			if err != nil {
				return err
			}
			id, ok = existing[name]
			if !ok {
				return fmt.Errorf("collection %q not present after creation", name)
			}
		}
		if err := d.setChecked(ctx, "#"+id, true); err != nil {
			return err
		}
	}
	return nil
}

// collectionBoxes maps collection names to their checkbox element ids.
func collectionBoxes(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	boxes := make(map[string]string)
	doc.Find("#collections input[type=checkbox]").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok {
			return
		}
		label := strings.TrimSpace(s.Parent().Text())
		if label != "" {
			boxes[label] = id
		}
	})
	return boxes, nil
}

func (d *Driver) createCollection(ctx context.Context, name string) error {
	add, err := d.element(ctx, "#collections .addnew")
	if err != nil {
		return err
	}
	if err := add.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := d.setText(ctx, "#collection_name", name); err != nil {
		return err
	}
	save, err := d.element(ctx, "#collection_save")
	if err != nil {
		return err
	}
	return save.Click(proto.InputMouseButtonLeft, 1)
}

func (d *Driver) setAuthors(ctx context.Context, authors []domain.Author) error {
	if len(authors) == 0 {
		return nil
	}
	if err := d.setText(ctx, "#form_authorunflip", authors[0].LastFirst); err != nil {
		return err
	}
	for i, a := range authors[1:] {
		row := i + 2
		nameSel := fmt.Sprintf("#form_person_name-%d", row)
		if has, err := d.hasElement(ctx, nameSel); err != nil {
			return err
		} else if !has {
			add, err := d.element(ctx, "#addPersonControl a")
			if err != nil {
				return err
			}
			if err := add.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return err
			}
		}
		if err := d.setText(ctx, nameSel, a.LastFirst); err != nil {
			return err
		}
		if a.Role != "" {
			if err := d.selectText(ctx, fmt.Sprintf("#person_role-%d", row), a.Role); err != nil {
				return err
			}
		}
	}
	return nil
}

// hasElement reports element existence without waiting on the page timeout.
func (d *Driver) hasElement(ctx context.Context, selector string) (bool, error) {
	has, _, err := d.page.Context(ctx).Has(selector)
	return has, err
}

func (d *Driver) setFormat(ctx context.Context, f domain.Format) error {
	if f.Code == "" && f.Text == "" {
		return nil
	}
	if f.Code != "" {
		return d.selectValue(ctx, "#mediaselect", f.Code)
	}
	return d.selectText(ctx, "#mediaselect", f.Text)
}

func (d *Driver) setPaginations(ctx context.Context, pags []domain.Pagination) error {
	for i, p := range pags {
		row := i + 1
		numSel := fmt.Sprintf("#numfield-%d", row)
		if row > 1 {
			if has, err := d.hasElement(ctx, numSel); err != nil {
				return err
			} else if !has {
				add, err := d.element(ctx, "#bookedit_pages .addfield")
				if err != nil {
					return err
				}
				if err := add.Click(proto.InputMouseButtonLeft, 1); err != nil {
					return err
				}
			}
		}
		if err := d.setText(ctx, numSel, p.Count); err != nil {
			return err
		}
		if err := d.selectValue(ctx, fmt.Sprintf("#pagetype-%d", row), paginationKindCode(p.Kind)); err != nil {
			return err
		}
	}
	return nil
}

// paginationKindCode maps a pagination kind to the form's option value.
func paginationKindCode(k domain.PaginationKind) string {
	switch k {
	case domain.PaginationNumeric:
		return "0"
	case domain.PaginationRoman:
		return "1"
	default:
		return "4"
	}
}

// setWeights fills one weight row per value, adding rows like setPaginations.
func (d *Driver) setWeights(ctx context.Context, weights []string) error {
	for i, w := range weights {
		row := i + 1
		fieldSel := fmt.Sprintf("#form_weight-%d", row)
		if row > 1 {
			if has, err := d.hasElement(ctx, fieldSel); err != nil {
				return err
			} else if !has {
				add, err := d.element(ctx, "#bookedit_weights .addfield")
				if err != nil {
					return err
				}
				if err := add.Click(proto.InputMouseButtonLeft, 1); err != nil {
					return err
				}
			}
		}
		if err := d.setMeasure(ctx, fieldSel, fmt.Sprintf("#weight_unit-%d", row), w, resolve.WeightUnit); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) setDimensions(ctx context.Context, dims domain.Dimensions) error {
	measures := []struct {
		value   string
		field   string
		unitSel string
	}{
		{dims.Height, "#form_height", "#height_unit"},
		{dims.Length, "#form_length", "#length_unit"},
		{dims.Thickness, "#form_thickness", "#thickness_unit"},
	}
	for _, m := range measures {
		if m.value == "" {
			continue
		}
		if err := d.setMeasure(ctx, m.field, m.unitSel, m.value, resolve.DimensionUnit); err != nil {
			return err
		}
	}
	return nil
}

// setMeasure splits a "value unit" string into a numeric input plus a unit
// select. The resolver already dropped values split cannot handle.
func (d *Driver) setMeasure(ctx context.Context, field, unitSel, value string, split func(string) (string, string, bool)) error {
	num, code, ok := split(value)
	if !ok {
		return fmt.Errorf("unusable measure %q", value)
	}
	if err := d.setText(ctx, field, num); err != nil {
		return err
	}
	return d.selectValue(ctx, unitSel, code)
}

func (d *Driver) setLanguage(ctx context.Context, selector string, lang domain.LanguageChoice) error {
	if lang.Code != "" {
		if err := d.selectValue(ctx, selector, lang.Code); err == nil {
			return nil
		}
	}
	return d.selectText(ctx, selector, lang.Name)
}

// setReadingDates fills the first started/finished row and blanks any other
// rows already present, so the destination ends up with exactly one pair.
func (d *Driver) setReadingDates(ctx context.Context, rd domain.ReadingDates) error {
	if err := d.setText(ctx, "#dr_start_1", rd.Started); err != nil {
		return err
	}
	if err := d.setText(ctx, "#dr_end_1", rd.Finished); err != nil {
		return err
	}
	for row := 2; ; row++ {
		startSel := fmt.Sprintf("#dr_start_%d", row)
		if has, err := d.hasElement(ctx, startSel); err != nil {
			return err
		} else if !has {
			return nil
		}
		if err := d.setText(ctx, startSel, ""); err != nil {
			return err
		}
		if err := d.setText(ctx, fmt.Sprintf("#dr_end_%d", row), ""); err != nil {
			return err
		}
	}
}

// setVenue fills the hidden venue id the picker would have set. The picker
// itself is a popup flow; the resolved candidate already carries the id.
func (d *Driver) setVenue(ctx context.Context, v domain.VenueCandidate) error {
	if v.VenueID == "" {
		return d.setText(ctx, "#form_fromwhere", v.Name)
	}
	_, err := d.page.Context(ctx).Eval(`(id, name) => {
		document.querySelector('#form_venueid').value = id;
		document.querySelector('#form_fromwhere').value = name;
	}`, v.VenueID, v.Name)
	return err
}
