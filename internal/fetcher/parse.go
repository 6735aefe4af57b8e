package fetcher

import (
	"fmt"

	"github.com/mmcdole/gofeed"

	"arxivbot/internal/model"
)

// Parse turns feed markup into a snapshot. Items keep their feed order and
// their title, link and description are taken verbatim; a missing field is
// left empty. The publication date comes from the channel's dc:date, falling
// back to the feed's updated and then published dates.
func Parse(markup string) (*model.Snapshot, error) {
	feed, err := gofeed.NewParser().ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	date := publicationDate(feed)
	if date == "" {
		return nil, fmt.Errorf("%w: no publication date", ErrMalformedFeed)
	}

	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, model.Article{
			Title:    item.Title,
			Link:     item.Link,
			Abstract: item.Description,
		})
	}

	return &model.Snapshot{
		PublicationDate: date,
		Articles:        articles,
	}, nil
}

func publicationDate(feed *gofeed.Feed) string {
	if feed.DublinCoreExt != nil {
		for _, d := range feed.DublinCoreExt.Date {
			if d != "" {
				return d
			}
		}
	}
	if feed.Updated != "" {
		return feed.Updated
	}
	return feed.Published
}
