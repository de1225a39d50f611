package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/markdown"
	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	feedItemLimit             = 10
	feedItemDescriptionLength = 200

	feedTitle       = "Byte Board Blog"
	feedDescription = "Latest posts from Byte Board Blog"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	ID      string     `xml:"id"`
	Updated string     `xml:"updated"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
}

// ShowRSSFeed serves the ten most recent published posts as RSS 2.0.
func (a *API) ShowRSSFeed(c *gin.Context) {
	posts, err := a.feedPosts()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	items := make([]rssItem, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		postURL := a.absoluteURL(post.Path())
		items = append(items, rssItem{
			Title:       post.Title,
			Link:        postURL,
			Description: markdown.TruncateChars(post.Content, feedItemDescriptionLength),
			PubDate:     feedTime(post).Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       feedTitle,
			Link:        a.absoluteURL("/"),
			Description: feedDescription,
			Items:       items,
		},
	}

	writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

// ShowAtomFeed serves the same posts as an Atom feed.
func (a *API) ShowAtomFeed(c *gin.Context) {
	posts, err := a.feedPosts()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	updated := time.Now()
	if len(posts) > 0 {
		updated = feedTime(&posts[0])
	}

	entries := make([]atomEntry, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		postURL := a.absoluteURL(post.Path())
		entries = append(entries, atomEntry{
			Title:   post.Title,
			ID:      postURL,
			Updated: feedTime(post).Format(time.RFC3339),
			Links:   []atomLink{{Href: postURL}},
			Summary: markdown.TruncateChars(post.Content, feedItemDescriptionLength),
		})
	}

	feed := atomFeed{
		XMLNS:    "http://www.w3.org/2005/Atom",
		Title:    feedTitle,
		Subtitle: feedDescription,
		ID:       a.absoluteURL("/"),
		Updated:  updated.Format(time.RFC3339),
		Links: []atomLink{
			{Href: a.absoluteURL("/feed/atom/"), Rel: "self"},
			{Href: a.absoluteURL("/")},
		},
		Entries: entries,
	}

	writeXML(c, "application/atom+xml; charset=utf-8", feed)
}

func (a *API) feedPosts() ([]db.Post, error) {
	result, err := a.posts.List(service.PostFilter{
		Status:  db.StatusPublished,
		Page:    1,
		PerPage: feedItemLimit,
	})
	if err != nil {
		return nil, err
	}
	return result.Posts, nil
}

func feedTime(post *db.Post) time.Time {
	if post.PublishedAt != nil {
		return *post.PublishedAt
	}
	return post.CreatedAt
}

func writeXML(c *gin.Context, contentType string, payload interface{}) {
	out, err := xml.Marshal(payload)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
