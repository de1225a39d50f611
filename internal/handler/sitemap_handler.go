package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/byteboard/internal/db"
	"github.com/gin-gonic/gin"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// ShowSitemap serves the sitemap covering the home page, every published
// post and every category and tag listing.
func (a *API) ShowSitemap(c *gin.Context) {
	urls := []sitemapURL{
		{Loc: a.absoluteURL("/"), ChangeFreq: "monthly", Priority: "0.5"},
	}

	var posts []db.Post
	if err := a.db.Where("status = ?", db.StatusPublished).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	for i := range posts {
		urls = append(urls, sitemapURL{
			Loc:        a.absoluteURL(posts[i].Path()),
			LastMod:    posts[i].UpdatedAt.Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.9",
		})
	}

	categories, err := a.categories.List()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	for i := range categories {
		urls = append(urls, sitemapURL{
			Loc:        a.absoluteURL(categories[i].Path()),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	tags, err := a.tags.List()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	for i := range tags {
		urls = append(urls, sitemapURL{
			Loc:        a.absoluteURL(tags[i].Path()),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	writeXML(c, "application/xml; charset=utf-8", sitemap)
}
