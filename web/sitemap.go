package web

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type SitemapChangeFreq int

const (
	SitemapChangeFreqUnspecified SitemapChangeFreq = 0
	SitemapChangeFreqAlways      SitemapChangeFreq = iota
	SitemapChangeFreqHourly
	SitemapChangeFreqDaily
	SitemapChangeFreqWeekly
	SitemapChangeFreqMonthly
	SitemapChangeFreqYearly
	SitemapChangeFreqNever
)

func (s SitemapChangeFreq) MarshalText() ([]byte, error) {
	switch s {
	case SitemapChangeFreqUnspecified:
		return nil, nil
	case SitemapChangeFreqAlways:
		return []byte("always"), nil
	case SitemapChangeFreqHourly:
		return []byte("hourly"), nil
	case SitemapChangeFreqDaily:
		return []byte("daily"), nil
	case SitemapChangeFreqWeekly:
		return []byte("weekly"), nil
	case SitemapChangeFreqMonthly:
		return []byte("monthly"), nil
	case SitemapChangeFreqYearly:
		return []byte("yearly"), nil
	case SitemapChangeFreqNever:
		return []byte("never"), nil
	}
	return nil, fmt.Errorf("bad change frequency %d", int(s))
}

type SitemapURLImage struct {
	Loc string `xml:"image:loc"`
}

type SitemapURL struct {
	Loc        string            `xml:"loc"`
	LastMod    string            `xml:"lastmod,omitempty"`
	ChangeFreq SitemapChangeFreq `xml:"changefreq,omitempty"`

	Image []SitemapURLImage `xml:"image:image,omitempty"`
}

type SitemapURLSet struct {
	XMLName    xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URL        []SitemapURL `xml:"url,omitempty"`
}

func (e *SitemapURLSet) Write(w http.ResponseWriter, r *http.Request) {
	e.XMLNSImage = "http://www.google.com/schemas/sitemap-image/1.1"

	buf, err := xml.MarshalIndent(e, "", " ")
	if err != nil {
		http.Error(w, "<error>could not encode sitemap</error>", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, "%s%s\n", xml.Header, buf)
}

// baseURL guesses the address clients used to reach us.
func baseURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return &url.URL{Scheme: scheme, Host: r.Host}
}

// sitemapHandler lists the info document of every sprite, with its frames
// as images.
func (h *Handler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	lib := h.library()
	set := &SitemapURLSet{}
	for _, name := range lib.Names() {
		s, ok := lib.Get(name)
		if !ok {
			continue
		}
		u := SitemapURL{
			Loc:        base.JoinPath("sprite", s.Name+".json").String(),
			LastMod:    s.ModTime.UTC().Format(time.RFC3339),
			ChangeFreq: SitemapChangeFreqWeekly,
		}
		for i := range s.Doc.Frames {
			u.Image = append(u.Image, SitemapURLImage{Loc: base.JoinPath("sprite", s.Name, strconv.Itoa(i)+".png").String()})
		}
		set.URL = append(set.URL, u)
	}
	set.Write(w, r)
}
