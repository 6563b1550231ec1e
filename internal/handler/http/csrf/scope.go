package csrf

import "strconv"

// ArticleDeleteScope is the scope of the delete link of article id.
func ArticleDeleteScope(id int64) string {
	return "blog_publication_delete_" + strconv.FormatInt(id, 10)
}

// CommentDeleteScope is the scope of the delete link of comment id.
func CommentDeleteScope(id int64) string {
	return "blog_comment_delete_" + strconv.FormatInt(id, 10)
}
