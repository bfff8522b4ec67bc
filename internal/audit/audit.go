package audit

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/net/html"

	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/logging"
)

// Violation is one failed rule on one element.
type Violation struct {
	Rule    string `json:"rule" yaml:"rule"`
	Impact  Impact `json:"impact" yaml:"impact"`
	Element string `json:"element" yaml:"element"`
	Message string `json:"message" yaml:"message"`
	HelpURL string `json:"help_url" yaml:"help_url"`
}

// Report holds every violation found on one page.
type Report struct {
	Route      string      `json:"route" yaml:"route"`
	Violations []Violation `json:"violations" yaml:"violations"`
}

// Passed reports whether the page has no violations.
func (r *Report) Passed() bool { return len(r.Violations) == 0 }

// Count returns the number of violations with the given impact.
func (r *Report) Count(impact Impact) int {
	n := 0
	for _, v := range r.Violations {
		if v.Impact == impact {
			n++
		}
	}
	return n
}

// Audit parses one document and applies every rule.
func Audit(r io.Reader, route string) (*Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrorTypeValidation, serrors.ErrCodeAccessibility, "failed to parse HTML").
			WithRoute(route)
	}
	return AuditNode(doc, route), nil
}

// AuditNode applies every rule to an already parsed document.
func AuditNode(doc *html.Node, route string) *Report {
	report := &Report{Route: route, Violations: []Violation{}}
	for _, rule := range Rules {
		rule.check(doc, func(n *html.Node, msg string) {
			report.Violations = append(report.Violations, Violation{
				Rule:    rule.ID,
				Impact:  rule.Impact,
				Element: describe(n),
				Message: msg,
				HelpURL: rule.HelpURL,
			})
		})
	}
	return report
}

// AuditDir audits every index.html below dir, deriving each route from its
// directory. Reports are sorted by route.
func AuditDir(ctx context.Context, dir string, concurrency int, logger logging.Logger) ([]*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("audit")
	if concurrency < 1 {
		concurrency = 1
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "index.html" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeInvalidPath, dir)
	}

	var (
		mu      sync.Mutex
		reports []*Report
	)
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(concurrency)
	for _, file := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			route := routeFor(dir, file)
			f, err := os.Open(file)
			if err != nil {
				return serrors.WrapIO(err, serrors.ErrCodeInvalidPath, file)
			}
			defer f.Close()

			report, err := Audit(f, route)
			if err != nil {
				return err
			}
			if !report.Passed() {
				logger.Warn(ctx, nil, "Accessibility violations", "route", route, "violations", len(report.Violations))
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Route < reports[j].Route })
	return reports, nil
}

// routeFor maps dist/shop/page/2/index.html to /shop/page/2.
func routeFor(dir, file string) string {
	rel, err := filepath.Rel(dir, filepath.Dir(file))
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + strings.TrimSuffix(filepath.ToSlash(rel), "/")
}
