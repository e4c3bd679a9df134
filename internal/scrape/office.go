package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
)

const holidaysLabel = "Upcoming Company Holidays"

// PTO panel labels. Each label cell is followed by its value cell.
const (
	labelBalance = "PTO Balance"
	labelCap     = "PTO Cap"
	labelEarned  = "PTO Earned"
	labelUsed    = "PTO Used"
	labelAccrual = "PTO Accrual Rate"
)

var number = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

func panel(r io.Reader, page string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s page: %w", page, err)
	}
	p := doc.Find("div.ptoplaceholder").First()
	if p.Length() == 0 {
		return nil, layoutError(page, "no PTO panel")
	}
	return p, nil
}

// ParseHolidays reads the upcoming company holidays from the timesheet home
// page. Entries look like "Memorial Day - 05/25/2020".
func ParseHolidays(r io.Reader) (model.Holidays, error) {
	const page = "holidays"
	p, err := panel(r, page)
	if err != nil {
		return nil, err
	}

	holidays := model.Holidays{}
	var parseErr error
	p.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.TrimSpace(td.Text()) != holidaysLabel {
			return true
		}
		td.NextFiltered("td").Find("p").EachWithBreak(func(_ int, entry *goquery.Selection) bool {
			text := strings.TrimSpace(entry.Text())
			i := strings.LastIndex(text, " - ")
			if i < 0 {
				parseErr = layoutError(page, "bad holiday %q", text)
				return false
			}
			d, err := dates.ParseForm(text[i+3:])
			if err != nil {
				parseErr = layoutError(page, "bad holiday date %q", text)
				return false
			}
			holidays[d] = strings.TrimSpace(text[:i])
			return true
		})
		return false
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return holidays, nil
}

// ParsePTO reads the PTO account panel from the timesheet home page.
func ParsePTO(r io.Reader) (model.PTO, error) {
	const page = "PTO"
	p, err := panel(r, page)
	if err != nil {
		return model.PTO{}, err
	}

	values := map[string]string{}
	p.Find("td").Each(func(_ int, td *goquery.Selection) {
		label := strings.TrimSuffix(strings.TrimSpace(td.Text()), ":")
		switch label {
		case labelBalance, labelCap, labelEarned, labelUsed, labelAccrual:
			values[label] = td.NextFiltered("td").Text()
		}
	})

	get := func(label string) (float64, error) {
		raw, ok := values[label]
		if !ok {
			return 0, layoutError(page, "missing %q", label)
		}
		m := number.FindString(strings.ReplaceAll(raw, ",", ""))
		if m == "" {
			return 0, layoutError(page, "no number in %s %q", label, raw)
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, layoutError(page, "bad %s %q", label, raw)
		}
		return v, nil
	}

	var pto model.PTO
	for _, f := range []struct {
		label string
		dst   *float64
	}{
		{labelBalance, &pto.Balance},
		{labelCap, &pto.Cap},
		{labelEarned, &pto.Earned},
		{labelUsed, &pto.Used},
	} {
		if *f.dst, err = get(f.label); err != nil {
			return model.PTO{}, err
		}
	}
	accrual, err := get(labelAccrual)
	if err != nil {
		return model.PTO{}, err
	}
	if accrual <= 0 {
		return model.PTO{}, layoutError(page, "accrual rate must be positive, got %v", accrual)
	}
	pto.AccrualHours = int(accrual)
	return pto, nil
}
