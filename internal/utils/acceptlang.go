package utils

import (
	"sort"
	"strconv"
	"strings"
)

type langWeight struct {
	tag string
	q   float64
}

// parseAcceptLanguage splits an Accept-Language header into tags ordered by
// descending q-value. Entries with q=0 or an unparsable weight are dropped.
func parseAcceptLanguage(header string) []langWeight {
	var out []langWeight
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, params, _ := strings.Cut(part, ";")
		w := langWeight{tag: strings.TrimSpace(tag), q: 1}
		if k, v, ok := strings.Cut(params, "="); ok && strings.TrimSpace(k) == "q" {
			q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			w.q = q
		}
		if w.tag == "" || w.q <= 0 {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].q > out[j].q })
	return out
}

// DetermineLocale picks a supported locale from an explicit query value, then
// the Accept-Language header, then def. Regional tags match their base
// language, so "es-MX" resolves to "es".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}
	match := func(tag string) (string, bool) {
		l := strings.ToLower(strings.TrimSpace(tag))
		if l == "" {
			return "", false
		}
		if _, ok := sup[l]; ok {
			return l, true
		}
		if base, _, found := strings.Cut(l, "-"); found {
			if _, ok := sup[base]; ok {
				return base, true
			}
		}
		return "", false
	}

	if l, ok := match(queryLang); ok {
		return l
	}
	for _, w := range parseAcceptLanguage(acceptLang) {
		if l, ok := match(w.tag); ok {
			return l
		}
	}
	if l, ok := match(def); ok {
		return l
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "en"
}
