package entity

import "time"

// DefaultCommentMaxLength is the comment length limit used when none is configured.
// It must stay below ContentMaxLength.
const DefaultCommentMaxLength = 2000

// Comment is a reader reaction attached to exactly one article.
type Comment struct {
	ID          int64
	Content     string
	PublishedAt time.Time
	AuthorID    int64
	ArticleID   int64
}

// NewComment builds a not-yet-persisted comment on articleID by authorID.
func NewComment(content string, articleID, authorID int64, publishedAt time.Time) Comment {
	return Comment{
		Content:     content,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		ArticleID:   articleID,
	}
}
