package wire

import (
	"media-review/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview mounts reviews and their comments under a title. Ownership is
// checked in the services, since it depends on the stored author.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	const (
		reviews  = "/titles/{title_id}/reviews"
		review   = reviews + "/{review_id}"
		comments = review + "/comments"
		comment  = comments + "/{comment_id}"
	)

	r.Get(reviews, reviewHandler.GetReviews)
	r.Post(reviews, reviewHandler.CreateReview)
	r.Get(review, reviewHandler.GetReview)
	r.Patch(review, reviewHandler.PatchReview)
	r.Put(review, reviewHandler.ReplaceReview)
	r.Delete(review, reviewHandler.DeleteReview)

	r.Get(comments, commentHandler.GetComments)
	r.Post(comments, commentHandler.CreateComment)
	r.Get(comment, commentHandler.GetComment)
	r.Patch(comment, commentHandler.PatchComment)
	r.Put(comment, commentHandler.ReplaceComment)
	r.Delete(comment, commentHandler.DeleteComment)
}
