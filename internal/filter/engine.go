// Package filter implements the optional per-source article matching rules.
//
// A source without rules dispatches every article. Otherwise an article is
// dispatched when at least one include rule matches (or there are none) and
// no exclude rule matches. Matching is case-insensitive.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"arxivbot/internal/model"
)

type rule struct {
	scope  model.FilterScope
	substr string
	re     *regexp.Regexp
}

func (r rule) matches(article model.Article) bool {
	for _, field := range fields(article, r.scope) {
		if r.re != nil {
			if r.re.MatchString(field) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(field), r.substr) {
			return true
		}
	}
	return false
}

func fields(article model.Article, scope model.FilterScope) []string {
	switch scope {
	case model.ScopeTitle:
		return []string{article.Title}
	case model.ScopeContent:
		return []string{article.Abstract}
	default:
		return []string{article.Title, article.Abstract}
	}
}

// Rules is the compiled form of a source's filters.
type Rules struct {
	include []rule
	exclude []rule
}

// Compile checks filters and prepares them for matching. Regular
// expressions are compiled once here.
func Compile(filters []model.Filter) (*Rules, error) {
	rs := &Rules{}
	for i, f := range filters {
		if f.Value == "" {
			return nil, fmt.Errorf("filter %d (%s): empty value", i, f.Kind)
		}
		switch f.Scope {
		case model.ScopeTitle, model.ScopeContent, model.ScopeAll, "":
		default:
			return nil, fmt.Errorf("filter %d: unknown scope %q", i, f.Scope)
		}

		r := rule{scope: f.Scope}
		switch f.Kind {
		case model.FilterInclude, model.FilterExclude:
			r.substr = strings.ToLower(f.Value)
		case model.FilterIncludeRe, model.FilterExcludeRe:
			re, err := regexp.Compile("(?i)" + f.Value)
			if err != nil {
				return nil, fmt.Errorf("filter %d: compile regex %q: %w", i, f.Value, err)
			}
			r.re = re
		default:
			return nil, fmt.Errorf("filter %d: unknown kind %q", i, f.Kind)
		}

		if f.Kind == model.FilterInclude || f.Kind == model.FilterIncludeRe {
			rs.include = append(rs.include, r)
		} else {
			rs.exclude = append(rs.exclude, r)
		}
	}
	return rs, nil
}

// Allow reports whether article passes the rules.
func (rs *Rules) Allow(article model.Article) bool {
	for _, r := range rs.exclude {
		if r.matches(article) {
			return false
		}
	}
	if len(rs.include) == 0 {
		return true
	}
	for _, r := range rs.include {
		if r.matches(article) {
			return true
		}
	}
	return false
}

// Select returns the allowed articles in their original order.
func (rs *Rules) Select(articles []model.Article) []model.Article {
	if len(rs.include) == 0 && len(rs.exclude) == 0 {
		return articles
	}
	var out []model.Article
	for _, a := range articles {
		if rs.Allow(a) {
			out = append(out, a)
		}
	}
	return out
}

// Articles compiles filters and applies them to articles.
func Articles(articles []model.Article, filters []model.Filter) ([]model.Article, error) {
	rs, err := Compile(filters)
	if err != nil {
		return nil, err
	}
	return rs.Select(articles), nil
}
